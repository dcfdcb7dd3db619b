package rank

import "fmt"

// Method selects which source fields serve as the earnings-yield and
// return-on-capital legs of the magic formula.
type Method int

const (
	// MethodPLROE ranks by P/L and ROE.
	MethodPLROE Method = 1
	// MethodEVEBITROIC ranks by EV/EBIT and ROIC.
	MethodEVEBITROIC Method = 2
	// MethodEVEBITDAROIC ranks by EV/EBITDA and ROIC.
	MethodEVEBITDAROIC Method = 3
)

// Fields returns the earnings-yield and return-on-capital column names.
func (m Method) Fields() (earningsYield, returnOnCapital string, err error) {
	switch m {
	case MethodPLROE:
		return "P/L", "ROE", nil
	case MethodEVEBITROIC:
		return "EV/EBIT", "ROIC", nil
	case MethodEVEBITDAROIC:
		return "EV/EBITDA", "ROIC", nil
	}
	return "", "", fmt.Errorf("unknown method %d (valid: 1, 2, 3)", m)
}
