package octopusenergy

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseTariffCode(t *testing.T) {
	tests := []struct {
		name       string
		tariffCode string
		want       *TariffParts
		standard   bool
		wantErr    bool
	}{
		{
			name:       "standard electricity tariff",
			tariffCode: "E-1R-SUPER-GREEN-24M-21-07-30-A",
			want:       &TariffParts{Energy: "E", Rate: "1R", ProductCode: "SUPER-GREEN-24M-21-07-30", Region: "A"},
			standard:   true,
		},
		{
			name:       "day night electricity tariff",
			tariffCode: "E-2R-SUPER-GREEN-24M-21-07-30-C",
			want:       &TariffParts{Energy: "E", Rate: "2R", ProductCode: "SUPER-GREEN-24M-21-07-30", Region: "C"},
		},
		{
			name:       "gas tariff",
			tariffCode: "G-1R-SUPER-GREEN-24M-21-07-30-A",
			want:       &TariffParts{Energy: "G", Rate: "1R", ProductCode: "SUPER-GREEN-24M-21-07-30", Region: "A"},
			standard:   true,
		},
		{
			name:       "code without energy and rate prefix",
			tariffCode: "SILVER-FLEX-22-11-25-C",
			want:       &TariffParts{ProductCode: "SILVER-FLEX-22-11-25", Region: "C"},
		},
		{
			name:       "not a tariff code",
			tariffCode: "not a tariff code",
			wantErr:    true,
		},
		{
			name:       "empty",
			tariffCode: "",
			wantErr:    true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			parts, err := ParseTariffCode(test.tariffCode)
			if test.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, test.want, parts)
			require.Equal(t, test.standard, parts.IsStandardRate())
		})
	}
}
