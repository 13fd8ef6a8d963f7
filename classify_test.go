package insider_test

import (
	"testing"

	insider "github.com/RxDataLab/go-insider"
	"github.com/stretchr/testify/assert"
)

func TestClassifySIC(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"0100", "Agriculture, Forestry, & Fishing"},
		{"1311", "Mining & Construction"},
		{"2836", "Manufacturing"},
		{"3674", "Manufacturing"},
		{"4813", "Transportation, Communications, & Utilities"},
		{"5812", "Wholesale & Retail Trade"},
		{"6022", "Finance, Insurance, & Real Estate"},
		{"7372", "Services"},
		{"8731", "Services"},
		{"9721", "Public Administration"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, insider.ClassifySIC(tt.code))
		})
	}
}

// Codes that are too short or non-numeric pass through unchanged.
func TestClassifySIC_Passthrough(t *testing.T) {
	for _, code := range []string{"", "123", "4", "73x2", "ABCD", "73 2"} {
		assert.Equal(t, code, insider.ClassifySIC(code))
	}
}
