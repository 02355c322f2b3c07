package store

import "github.com/roach88/rtikit/internal/fom"

// Federation is a stored federation execution.
type Federation struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	TimeImplementation string `json:"time_implementation"`
	ModelFingerprint   string `json:"model_fingerprint"`
	Seq                int64  `json:"seq"`
}

// Model is a datatype model stored by fingerprint.
type Model struct {
	Fingerprint  string
	Declarations *fom.Declarations
}

// Join records a federate joining a federation together with the time
// sentinels minted for it, encoded by the federation's time factory.
type Join struct {
	FederationID string `json:"federation_id"`
	Federate     string `json:"federate"`
	InitialTime  []byte `json:"initial_time"`
	ZeroInterval []byte `json:"zero_interval"`
	Seq          int64  `json:"seq"`
}
