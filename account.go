package octopusenergy

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/go-openapi/runtime"
	httptransport "github.com/go-openapi/runtime/client"
	"github.com/go-openapi/strfmt"
)

const graphqlPath = "/graphql/"

const apiTokenQuery = `mutation {
	obtainKrakenToken(input: { APIKey: "%s" }) {
		token
	}
}`

const accountQuery = `query {
  account(accountNumber: "%s") {
    electricityAgreements(active: true) {
		meterPoint {
			mpan
			meters(includeInactive: false) {
				serialNumber
				smartExportElectricityMeter {
					deviceId
				}
			}
			agreements {
				validFrom
				validTo
				tariff {
					...on StandardTariff {
						tariffCode
					}
					...on DayNightTariff {
						tariffCode
					}
					...on ThreeRateTariff {
						tariffCode
					}
					...on HalfHourlyTariff {
						tariffCode
					}
					...on PrepayTariff {
						tariffCode
					}
				}
			}
		}
    }
    gasAgreements(active: true) {
		meterPoint {
			mprn
			meters(includeInactive: false) {
				serialNumber
			}
			agreements {
				validFrom
				validTo
				tariff {
					tariffCode
				}
			}
		}
    }
  }
}`

// Raw GraphQL shapes, decoded with the upstream field names.

type graphqlRequest struct {
	Query string `json:"query"`
}

type obtainTokenResponse struct {
	Data *struct {
		ObtainKrakenToken *struct {
			Token string `json:"token"`
		} `json:"obtainKrakenToken"`
	} `json:"data"`
}

type rawAgreement struct {
	ValidFrom *strfmt.DateTime `json:"validFrom"`
	ValidTo   *strfmt.DateTime `json:"validTo"`
	Tariff    struct {
		TariffCode string `json:"tariffCode"`
	} `json:"tariff"`
}

type accountResponse struct {
	Data *struct {
		Account *struct {
			ElectricityAgreements []struct {
				MeterPoint struct {
					Mpan   string `json:"mpan"`
					Meters []struct {
						SerialNumber                string `json:"serialNumber"`
						SmartExportElectricityMeter *struct {
							DeviceID string `json:"deviceId"`
						} `json:"smartExportElectricityMeter"`
					} `json:"meters"`
					Agreements []rawAgreement `json:"agreements"`
				} `json:"meterPoint"`
			} `json:"electricityAgreements"`
			GasAgreements []struct {
				MeterPoint struct {
					Mprn   string `json:"mprn"`
					Meters []struct {
						SerialNumber string `json:"serialNumber"`
					} `json:"meters"`
					Agreements []rawAgreement `json:"agreements"`
				} `json:"meterPoint"`
			} `json:"gasAgreements"`
		} `json:"account"`
	} `json:"data"`
}

// GetAccount fetches the meter points and agreements on an account via the
// GraphQL API, exchanging the API key for a kraken token first. A missing
// token or account payload is logged and returns nil rather than an error;
// the scheduling layer is expected to try again later.
func (c *Client) GetAccount(ctx context.Context, accountID string) (*AccountSnapshot, error) {
	token, err := c.obtainToken(ctx)
	if err != nil {
		return nil, err
	}
	if token == "" {
		log.Printf("Failed to retrieve auth token")
		return nil, nil
	}

	result, err := c.postGraphQL(ctx, "getAccount", fmt.Sprintf(accountQuery, accountID),
		httptransport.APIKeyAuth("Authorization", "header", "JWT "+token),
		func() interface{} { return &accountResponse{} })
	if err != nil {
		return nil, err
	}

	body := result.(*accountResponse)
	if body.Data == nil || body.Data.Account == nil {
		log.Printf("Failed to retrieve account")
		return nil, nil
	}

	return newAccountSnapshot(body), nil
}

func (c *Client) obtainToken(ctx context.Context) (string, error) {
	result, err := c.postGraphQL(ctx, "obtainKrakenToken", fmt.Sprintf(apiTokenQuery, c.apiKey),
		nil, func() interface{} { return &obtainTokenResponse{} })
	if err != nil {
		return "", err
	}

	body := result.(*obtainTokenResponse)
	if body.Data == nil || body.Data.ObtainKrakenToken == nil {
		return "", nil
	}
	return body.Data.ObtainKrakenToken.Token, nil
}

func (c *Client) postGraphQL(ctx context.Context, id, query string, auth runtime.ClientAuthInfoWriter, newTarget func() interface{}) (interface{}, error) {
	return c.graphql.Submit(&runtime.ClientOperation{
		ID:                 id,
		Method:             http.MethodPost,
		PathPattern:        graphqlPath,
		ProducesMediaTypes: jsonMedia,
		ConsumesMediaTypes: jsonMedia,
		Schemes:            schemes,
		AuthInfo:           auth,
		Context:            ctx,
		Params: runtime.ClientRequestWriterFunc(func(req runtime.ClientRequest, _ strfmt.Registry) error {
			return req.SetBodyParam(graphqlRequest{Query: query})
		}),
		Reader: &jsonResponseReader{
			url:        operationURL(graphqlPath, nil, nil),
			defaultVal: newTarget(),
			newTarget:  newTarget,
		},
	})
}

// newAccountSnapshot reshapes the raw GraphQL payload into the canonical
// snapshot field names.
func newAccountSnapshot(body *accountResponse) *AccountSnapshot {
	account := body.Data.Account
	snapshot := &AccountSnapshot{}

	for _, ea := range account.ElectricityAgreements {
		point := ElectricityMeterPoint{Mpan: ea.MeterPoint.Mpan}
		for _, m := range ea.MeterPoint.Meters {
			point.Meters = append(point.Meters, ElectricityMeter{
				SerialNumber: m.SerialNumber,
				IsExport:     m.SmartExportElectricityMeter != nil,
			})
		}
		for _, a := range ea.MeterPoint.Agreements {
			point.Agreements = append(point.Agreements, Agreement{
				ValidFrom:  a.ValidFrom,
				ValidTo:    a.ValidTo,
				TariffCode: a.Tariff.TariffCode,
			})
		}
		snapshot.ElectricityMeterPoints = append(snapshot.ElectricityMeterPoints, point)
	}

	for _, ga := range account.GasAgreements {
		point := GasMeterPoint{Mprn: ga.MeterPoint.Mprn}
		for _, m := range ga.MeterPoint.Meters {
			point.Meters = append(point.Meters, GasMeter{SerialNumber: m.SerialNumber})
		}
		for _, a := range ga.MeterPoint.Agreements {
			point.Agreements = append(point.Agreements, Agreement{
				ValidFrom:  a.ValidFrom,
				ValidTo:    a.ValidTo,
				TariffCode: a.Tariff.TariffCode,
			})
		}
		snapshot.GasMeterPoints = append(snapshot.GasMeterPoints, point)
	}

	return snapshot
}
