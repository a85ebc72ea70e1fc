package basic

import (
	"github.com/hashicorp/go-multierror"

	tpcmm "github.com/TopiaNetwork/ethtx/common"
)

const (
	ErrValidation = tpcmm.ErrValidation
	ErrState      = tpcmm.ErrState
)

// ErrorStrings flattens err, expanding a multierror into its parts.
func ErrorStrings(err error) []string {
	if err == nil {
		return []string{}
	}

	if merr, ok := err.(*multierror.Error); ok {
		strs := make([]string, 0, len(merr.Errors))
		for _, e := range merr.Errors {
			strs = append(strs, e.Error())
		}
		return strs
	}

	return []string{err.Error()}
}
