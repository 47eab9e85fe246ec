package config

import (
	"github.com/shopspring/decimal"

	"github.com/retirewise/planner/internal/domain"
)

func d(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

// DefaultRateSet returns the built-in 2025 Canadian rules: federal and
// provincial tax schedules, CPP and OAS parameters, and the RRIF minimum
// withdrawal table.
func DefaultRateSet() *domain.RateSet {
	return &domain.RateSet{
		Year: 2025,
		FederalBrackets: []domain.TaxBracket{
			{UpTo: d(57375), Rate: d(0.15)},
			{UpTo: d(114750), Rate: d(0.205)},
			{UpTo: d(177882), Rate: d(0.26)},
			{UpTo: d(253414), Rate: d(0.29)},
			{Rate: d(0.33)},
		},
		ProvincialBrackets: map[string][]domain.TaxBracket{
			"ON": {
				{UpTo: d(52886), Rate: d(0.0505)},
				{UpTo: d(105775), Rate: d(0.0915)},
				{UpTo: d(150000), Rate: d(0.1116)},
				{UpTo: d(220000), Rate: d(0.1216)},
				{Rate: d(0.1316)},
			},
			"BC": {
				{UpTo: d(49279), Rate: d(0.0506)},
				{UpTo: d(98560), Rate: d(0.077)},
				{UpTo: d(113158), Rate: d(0.105)},
				{UpTo: d(137407), Rate: d(0.1229)},
				{UpTo: d(186306), Rate: d(0.147)},
				{UpTo: d(259829), Rate: d(0.168)},
				{Rate: d(0.205)},
			},
		},
		CPP: domain.BenefitParameters{
			StandardAge: 65,
			MinStartAge: 60,
			MaxStartAge: 70,
			// 0.6%/month reduction below 65, 0.7%/month credit above.
			AdjustmentFactors: map[int]decimal.Decimal{
				60: d(0.64),
				61: d(0.712),
				62: d(0.784),
				63: d(0.856),
				64: d(0.928),
				65: d(1.0),
				66: d(1.084),
				67: d(1.168),
				68: d(1.252),
				69: d(1.336),
				70: d(1.42),
			},
		},
		OAS: domain.BenefitParameters{
			StandardAge: 65,
			MinStartAge: 65,
			MaxStartAge: 70,
			// 0.6%/month deferral credit, no early election.
			AdjustmentFactors: map[int]decimal.Decimal{
				65: d(1.0),
				66: d(1.072),
				67: d(1.144),
				68: d(1.216),
				69: d(1.288),
				70: d(1.36),
			},
			ClawbackThreshold: d(93454),
			ClawbackRate:      d(0.15),
			ClawbackCeiling:   d(151668),
		},
		MinimumWithdrawals: domain.WithdrawalSchedule{
			MinimumAge: 71,
			Fractions: map[int]decimal.Decimal{
				71: d(0.0528),
				72: d(0.0540),
				73: d(0.0553),
				74: d(0.0567),
				75: d(0.0582),
				76: d(0.0598),
				77: d(0.0617),
				78: d(0.0636),
				79: d(0.0658),
				80: d(0.0682),
				81: d(0.0708),
				82: d(0.0738),
				83: d(0.0771),
				84: d(0.0808),
				85: d(0.0851),
				86: d(0.0899),
				87: d(0.0955),
				88: d(0.1021),
				89: d(0.1099),
				90: d(0.1192),
				91: d(0.1306),
				92: d(0.1449),
				93: d(0.1634),
				94: d(0.1879),
				95: d(0.2000),
			},
		},
	}
}
