/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package proof implements the Data Integrity proof model (narrowed
// to what a did:webvh log entry's proof actually carries) and the
// eddsa-jcs-2022 cryptosuite this engine signs and verifies log
// entries and witness attestations with.
package proof

import "time"

// VerificationMethod identifies the key a proof was produced or
// should be checked with. Fields carries out-of-band key material
// (publicKeyBytes) a KeyResolver already looked up; a log entry's
// proof never otherwise names a key type or controller since
// authorization comes from the active updateKeys set, not from the
// verification method's own document.
type VerificationMethod struct {
	ID     string `json:"id"`
	Fields map[string]interface{}
}

// Proof implements the subset of the data integrity proof model
// (https://www.w3.org/TR/vc-data-integrity/#proofs) a did:webvh log
// entry proof uses: no domain/challenge (log entries aren't
// challenge-response artifacts) and no previousProof (entries chain
// by hash, not by proof reference).
type Proof struct {
	Type               string `json:"type"`
	ProofPurpose       string `json:"proofPurpose"`
	VerificationMethod string `json:"verificationMethod"`
	Created            string `json:"created,omitempty"`
	ProofValue         string `json:"proofValue"`
}

// ProofOptions provides options for signing or verifying a data integrity proof.
type ProofOptions struct {
	Purpose            string
	VerificationMethod *VerificationMethod
}

// DateTimeFormat is the date-time format used by the data integrity
// specification, which matches RFC3339.
// https://www.w3.org/TR/xmlschema11-2/#dateTime
const DateTimeFormat = time.RFC3339
