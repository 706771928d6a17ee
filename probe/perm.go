package probe

import "github.com/probekit/devcheck/model"

// permState is the resolution of a named access check, mirroring the
// four states a permission query can land in.
type permState int

const (
	permUnsupported permState = 0 // capability does not exist here
	permPrompt      permState = 1 // could work, needs setup or consent
	permDenied      permState = 2 // exists but access is blocked
	permGranted     permState = 3 // usable right now
)

func (s permState) String() string {
	switch s {
	case permGranted:
		return "granted"
	case permDenied:
		return "denied"
	case permPrompt:
		return "prompt"
	}
	return "unsupported"
}

// permValue renders a permission state as a row value. The unsupported
// state collapses to the shared sentinel; the other three are real
// results.
func permValue(s permState) model.Value {
	if s == permUnsupported {
		return model.NotSupported()
	}
	return model.Text(s.String())
}
