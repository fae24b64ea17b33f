package types

import (
	"fmt"
	"strconv"

	abci "github.com/cometbft/cometbft/abci/types"
)

const (
	EventCreateProposalType = "create_proposal"
	EventVoteType           = "vote"
	EventTransferType       = "transfer"
)

type EventCreateProposal struct {
	Proposal Pubkey      `json:"proposal"`
	Author   Pubkey      `json:"author"`
	Payer    Pubkey      `json:"payer"`
	Uri      string      `json:"uri"`
	Hash     ContentHash `json:"hash"`
	Bump     uint8       `json:"bump"`
}

func EncodeEventCreateProposal(event *EventCreateProposal) abci.Event {
	return abci.Event{
		Type: EventCreateProposalType,
		Attributes: []abci.EventAttribute{
			{Key: "proposal", Value: event.Proposal.String(), Index: true},
			{Key: "author", Value: event.Author.String(), Index: true},
			{Key: "payer", Value: event.Payer.String(), Index: false},
			{Key: "uri", Value: event.Uri, Index: false},
			{Key: "hash", Value: event.Hash.String(), Index: false},
			{Key: "bump", Value: fmt.Sprintf("%v", event.Bump), Index: false},
		},
	}
}

func DecodeEventCreateProposal(originEvent abci.Event) *EventCreateProposal {
	event := &EventCreateProposal{}
	for _, v := range originEvent.Attributes {
		var err error
		switch v.Key {
		case "proposal":
			event.Proposal, err = PubkeyFromBase58(v.Value)
		case "author":
			event.Author, err = PubkeyFromBase58(v.Value)
		case "payer":
			event.Payer, err = PubkeyFromBase58(v.Value)
		case "uri":
			event.Uri = v.Value
		case "hash":
			err = event.Hash.UnmarshalText([]byte(v.Value))
		case "bump":
			var bump uint64
			bump, err = strconv.ParseUint(v.Value, 10, 8)
			event.Bump = uint8(bump)
		}
		if err != nil {
			return nil
		}
	}
	return event
}

type EventVote struct {
	Vote     Pubkey `json:"vote"`
	Proposal Pubkey `json:"proposal"`
	Voter    Pubkey `json:"voter"`
	Payer    Pubkey `json:"payer"`
	Choice   uint8  `json:"choice"`
	Bump     uint8  `json:"bump"`
}

func EncodeEventVote(event *EventVote) abci.Event {
	return abci.Event{
		Type: EventVoteType,
		Attributes: []abci.EventAttribute{
			{Key: "vote", Value: event.Vote.String(), Index: true},
			{Key: "proposal", Value: event.Proposal.String(), Index: true},
			{Key: "voter", Value: event.Voter.String(), Index: true},
			{Key: "payer", Value: event.Payer.String(), Index: false},
			{Key: "choice", Value: fmt.Sprintf("%v", event.Choice), Index: false},
			{Key: "bump", Value: fmt.Sprintf("%v", event.Bump), Index: false},
		},
	}
}

func DecodeEventVote(originEvent abci.Event) *EventVote {
	event := &EventVote{}
	for _, v := range originEvent.Attributes {
		var err error
		switch v.Key {
		case "vote":
			event.Vote, err = PubkeyFromBase58(v.Value)
		case "proposal":
			event.Proposal, err = PubkeyFromBase58(v.Value)
		case "voter":
			event.Voter, err = PubkeyFromBase58(v.Value)
		case "payer":
			event.Payer, err = PubkeyFromBase58(v.Value)
		case "choice":
			var choice uint64
			choice, err = strconv.ParseUint(v.Value, 10, 8)
			event.Choice = uint8(choice)
		case "bump":
			var bump uint64
			bump, err = strconv.ParseUint(v.Value, 10, 8)
			event.Bump = uint8(bump)
		}
		if err != nil {
			return nil
		}
	}
	return event
}

type EventTransfer struct {
	From   Pubkey `json:"from"`
	To     Pubkey `json:"to"`
	Amount uint64 `json:"amount"`
}

func EncodeEventTransfer(event *EventTransfer) abci.Event {
	return abci.Event{
		Type: EventTransferType,
		Attributes: []abci.EventAttribute{
			{Key: "from", Value: event.From.String(), Index: true},
			{Key: "to", Value: event.To.String(), Index: true},
			{Key: "amount", Value: fmt.Sprintf("%d", event.Amount), Index: false},
		},
	}
}

func DecodeEventTransfer(originEvent abci.Event) *EventTransfer {
	event := &EventTransfer{}
	for _, v := range originEvent.Attributes {
		var err error
		switch v.Key {
		case "from":
			event.From, err = PubkeyFromBase58(v.Value)
		case "to":
			event.To, err = PubkeyFromBase58(v.Value)
		case "amount":
			event.Amount, err = strconv.ParseUint(v.Value, 10, 64)
		}
		if err != nil {
			return nil
		}
	}
	return event
}
