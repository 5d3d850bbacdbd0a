package swap

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Pair identifies the two fungible assets being exchanged, by registry
// slug. The assets may live on different chains.
type Pair struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (p Pair) Key() string {
	return fmt.Sprintf("%s___%s", p.From, p.To)
}

// Request is one user swap intent: exchange FromAmount base units of
// the pair's from-asset, held by Address. Recipient is optional; when
// empty the swapped funds stay with the requester. A request is created
// once per user action and consumed by exactly one venue handler.
type Request struct {
	Pair       Pair   `json:"pair"`
	FromAmount string `json:"from_amount"`
	Address    string `json:"address"`
	Recipient  string `json:"recipient,omitempty"`
}

type StepType string

const (
	// StepTypeDefault is the fixed first placeholder every path starts
	// with, present even when no other step is generated.
	StepTypeDefault       StepType = "DEFAULT"
	StepTypeXcm           StepType = "XCM"
	StepTypeTokenApproval StepType = "TOKEN_APPROVAL"
	StepTypeSetFeeToken   StepType = "SET_FEE_TOKEN"
	StepTypeSubmit        StepType = "SUBMIT"
)

// XcmMeta describes a preparatory cross-chain top-up: SendingValue base
// units of the origin asset move to the destination asset's chain.
type XcmMeta struct {
	SendingValue     string `json:"sending_value"`
	OriginAsset      string `json:"origin_asset"`
	DestinationAsset string `json:"destination_asset"`
}

// SubmitMeta ties a submit step back to the quote it executes.
type SubmitMeta struct {
	Quote *Quote `json:"quote"`
}

// Step is one atomic operation in an ordered swap plan. Exactly one
// metadata field matching Type is set; the type fixes which validation
// routine applies at submission time.
type Step struct {
	ID     int         `json:"id"`
	Name   string      `json:"name"`
	Type   StepType    `json:"type"`
	Xcm    *XcmMeta    `json:"xcm,omitempty"`
	Submit *SubmitMeta `json:"submit,omitempty"`
}

// SubmitStepData is what submission hands to the chain-specific
// signing/broadcast layer, which is outside this engine.
type SubmitStepData struct {
	Provider string            `json:"provider"`
	Chain    string            `json:"chain"`
	StepType StepType          `json:"step_type"`
	Call     map[string]string `json:"call"`
}

// NewProcessID returns a random identifier for a generated path.
func NewProcessID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "proc-unknown"
	}
	return fmt.Sprintf("proc_%s", hex.EncodeToString(b))
}
