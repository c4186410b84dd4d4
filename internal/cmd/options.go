package cmd

import (
	"fmt"
	"strconv"

	"github.com/heaths/go-console"
	"github.com/spf13/cobra"
)

type GlobalOptions struct {
	Console console.Console
}

func IntRangeVarP(cmd *cobra.Command, p *int, name, shorthand string, defaultValue int, min, max int, usage string) {
	*p = defaultValue
	val := &intValue{
		value: p,
		min:   min,
		max:   max,
	}

	cmd.Flags().VarP(val, name, shorthand, fmt.Sprintf("%s: {%d <= %s <= %d}", usage, min, name, max))
}

func PositiveFloatVarP(cmd *cobra.Command, p *float64, name, shorthand string, defaultValue float64, usage string) {
	*p = defaultValue
	val := &positiveFloatValue{
		value: p,
	}

	cmd.Flags().VarP(val, name, shorthand, fmt.Sprintf("%s: {%s > 0}", usage, name))
}

type intValue struct {
	value    *int
	min, max int
}

func (v *intValue) String() string {
	return strconv.Itoa(*v.value)
}

func (v *intValue) Set(s string) error {
	val64, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return fmt.Errorf("invalid value: %s", s)
	}

	val := int(val64)
	if val < v.min {
		return fmt.Errorf("value is less than %d", v.min)
	}
	if val > v.max {
		return fmt.Errorf("value is more than %d", v.max)
	}

	*v.value = val
	return nil
}

func (v *intValue) Type() string {
	return "int"
}

type positiveFloatValue struct {
	value *float64
}

func (v *positiveFloatValue) String() string {
	return strconv.FormatFloat(*v.value, 'g', -1, 64)
}

func (v *positiveFloatValue) Set(s string) error {
	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid value: %s", s)
	}

	if val <= 0 {
		return fmt.Errorf("value must be greater than 0")
	}

	*v.value = val
	return nil
}

func (v *positiveFloatValue) Type() string {
	return "float64"
}
