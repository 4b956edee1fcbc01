// Package core is the native interface of the in-process pub/sub middleware.
//
// The surface is deliberately flat and handle-based: entities are referred to
// by positive int32 handles, failures are negative return codes, and sample
// retrieval hands out loans that must be returned. The dds package wraps this
// surface with owned-resource types; nothing else should call it directly
// except tests.
package core

// Handle identifies a middleware entity. Values > 0 are valid handles;
// negative values returned from creation calls are ReturnCodes.
type Handle = int32

// ReturnCode is the status of a core operation. Zero or positive means
// success (retrieval calls reuse positive values as counts).
type ReturnCode = int32

const (
	RetcodeOK                 ReturnCode = 0
	RetcodeError              ReturnCode = -1
	RetcodeUnsupported        ReturnCode = -2
	RetcodeBadParameter       ReturnCode = -3
	RetcodePreconditionNotMet ReturnCode = -4
	RetcodeOutOfResources     ReturnCode = -5
	RetcodeInconsistentPolicy ReturnCode = -8
	RetcodeAlreadyDeleted     ReturnCode = -9
	RetcodeTimeout            ReturnCode = -10
	RetcodeNoData             ReturnCode = -11
)

// Strretcode returns the symbolic name of a return code for diagnostics.
func Strretcode(code ReturnCode) string {
	switch code {
	case RetcodeOK:
		return "Success"
	case RetcodeError:
		return "Error"
	case RetcodeUnsupported:
		return "Unsupported"
	case RetcodeBadParameter:
		return "Bad Parameter"
	case RetcodePreconditionNotMet:
		return "Precondition Not Met"
	case RetcodeOutOfResources:
		return "Out Of Resources"
	case RetcodeInconsistentPolicy:
		return "Inconsistent Policy"
	case RetcodeAlreadyDeleted:
		return "Already Deleted"
	case RetcodeTimeout:
		return "Timeout"
	case RetcodeNoData:
		return "No Data"
	default:
		return "Unknown"
	}
}
