package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/retirewise/planner/internal/calculation"
	"github.com/retirewise/planner/internal/config"
	pkgdec "github.com/retirewise/planner/pkg/decimal"
)

// Prints the built-in mandatory minimum withdrawal schedule alongside the
// dollar minimum for a sample balance, for eyeballing rate-set changes.
func main() {
	rates := config.DefaultRateSet()
	rule := calculation.NewMinimumWithdrawalRule(rates.MinimumWithdrawals)

	balance := decimal.NewFromInt(100000)
	if len(os.Args) > 1 {
		b, err := decimal.NewFromString(os.Args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "bad balance %q: %v\n", os.Args[1], err)
			os.Exit(1)
		}
		balance = b
	}

	ages := make([]int, 0, len(rates.MinimumWithdrawals.Fractions))
	for age := range rates.MinimumWithdrawals.Fractions {
		ages = append(ages, age)
	}
	sort.Ints(ages)

	fmt.Printf("Mandatory minimums on a balance of %s (rate set %d)\n\n", balance.StringFixed(2), rates.Year)
	fmt.Printf("%-5s %10s %14s %14s\n", "Age", "Fraction", "Annual", "Monthly")
	for _, age := range ages {
		required := pkgdec.NewMoneyFromDecimal(rule.Required(age, balance))
		fmt.Printf("%-5d %10s %14s %14s\n",
			age,
			rule.Fraction(age).StringFixed(4),
			required.String(),
			required.Monthly().Round().String())
	}
	fmt.Printf("\nAges beyond %d use the final fraction.\n", ages[len(ages)-1])
}
