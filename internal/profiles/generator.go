package profiles

import "context"

// Generator produces a borrower profile for a subject.
type Generator interface {
	Generate(ctx context.Context, subject Subject) (BorrowerProfile, error)
}

// attachIdentity stores the masked identifiers on the profile; raw numbers
// never leave the request.
func attachIdentity(p BorrowerProfile, subject Subject) BorrowerProfile {
	p.Credit.AadhaarNumber = subject.MaskedAadhaar()
	p.Credit.PANNumber = subject.MaskedPAN()
	return p
}
