package config

import (
	"fmt"
	"reflect"
	"time"

	"github.com/segyhp/student-loan-simulator/internal/domain"
	"github.com/segyhp/student-loan-simulator/pkg/utils"

	"github.com/go-viper/mapstructure/v2"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// LoadScenario reads loans and scheduled payments from a YAML, JSON or TOML file
func LoadScenario(path string) (*domain.SimulationRequest, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("unable to read scenario %s: %w", path, err)
	}

	var request domain.SimulationRequest
	hooks := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		decimalDecodeHook(),
		dateStringDecodeHook(),
	))
	if err := v.Unmarshal(&request, hooks); err != nil {
		return nil, fmt.Errorf("unable to decode scenario %s: %w", path, err)
	}

	return &request, nil
}

// DefaultScenario is the two loan demo used when no scenario file is configured.
// The first payment only reaches loan 1, the second pays off both loans.
func DefaultScenario() *domain.SimulationRequest {
	return &domain.SimulationRequest{
		Loans: []domain.LoanDefinition{
			{
				LenderName:        "Test Lender",
				AccountNumber:     "123456-1111",
				APR:               decimal.RequireFromString("0.0325"),
				MinPayment:        decimal.NewFromInt(10),
				StartDate:         "2018-01-01",
				StartingPrincipal: decimal.NewFromInt(50),
			},
			{
				LenderName:        "Test Lender",
				AccountNumber:     "123456-2222",
				APR:               decimal.RequireFromString("0.0325"),
				MinPayment:        decimal.NewFromInt(10),
				StartDate:         "2018-03-01",
				StartingPrincipal: decimal.NewFromInt(50),
			},
		},
		Payments: []domain.PaymentDefinition{
			{Date: "2018-02-01", Amount: decimal.NewFromInt(40)},
			{Date: "2018-03-01", Amount: decimal.NewFromInt(61)},
		},
	}
}

var decimalType = reflect.TypeOf(decimal.Decimal{})

// decimalDecodeHook accepts amounts written as numbers or strings
func decimalDecodeHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != decimalType {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			return decimal.NewFromString(v)
		case float64:
			return decimal.NewFromFloat(v), nil
		case float32:
			return decimal.NewFromFloat32(v), nil
		case int:
			return decimal.NewFromInt(int64(v)), nil
		case int64:
			return decimal.NewFromInt(v), nil
		case uint64:
			return decimal.NewFromUint64(v), nil
		}
		return data, nil
	}
}

// dateStringDecodeHook turns parsed timestamps back into DateLayout strings
func dateStringDecodeHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to.Kind() != reflect.String {
			return data, nil
		}
		if t, ok := data.(time.Time); ok {
			return utils.FormatDate(t), nil
		}
		return data, nil
	}
}
