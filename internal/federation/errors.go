package federation

import "errors"

var (
	// ErrFederationExists is returned when creating a federation whose name
	// is taken.
	ErrFederationExists = errors.New("federation execution already exists")

	// ErrFederationNotFound is returned for operations on an unknown
	// federation name.
	ErrFederationNotFound = errors.New("federation execution does not exist")

	// ErrFederateAlreadyJoined is returned when a federate name joins the
	// same federation twice.
	ErrFederateAlreadyJoined = errors.New("federate already joined")

	// ErrModelMismatch is returned when a stored model no longer resolves to
	// the fingerprint recorded with its federation.
	ErrModelMismatch = errors.New("stored datatype model does not match its fingerprint")
)
