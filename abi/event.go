// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package abi

import (
	"errors"
	"fmt"
	"reflect"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/0xngmi/nft-collateral/nfc"
)

// Event see abi.Event in go-ethereum.
type Event struct {
	id                 nfc.Bytes32
	event              *ethabi.Event
	indexed            ethabi.Arguments
	argsWithoutIndexed ethabi.Arguments
}

func newEvent(event *ethabi.Event) *Event {
	var indexed ethabi.Arguments
	for _, arg := range event.Inputs {
		if arg.Indexed {
			indexed = append(indexed, arg)
		}
	}
	return &Event{
		nfc.Bytes32(event.ID),
		event,
		indexed,
		event.Inputs.NonIndexed(),
	}
}

// ID returns event id.
func (e *Event) ID() nfc.Bytes32 {
	return e.id
}

// Name returns event name.
func (e *Event) Name() string {
	return e.event.Name
}

// Encode encodes non-indexed args to data.
func (e *Event) Encode(args ...any) ([]byte, error) {
	return e.argsWithoutIndexed.Pack(normalize(args)...)
}

// Decode decodes non-indexed event data into v.
func (e *Event) Decode(data []byte, v any) error {
	return unpackInto(e.argsWithoutIndexed, data, v)
}

// EncodeLog encodes all args, in declaration order, into topics and data.
// The first topic is the event id.
func (e *Event) EncodeLog(args ...any) ([]nfc.Bytes32, []byte, error) {
	if len(args) != len(e.event.Inputs) {
		return nil, nil, errors.New("argument count mismatch")
	}
	args = normalize(args)

	var (
		topicArgs [][]any
		dataArgs  []any
	)
	for i, input := range e.event.Inputs {
		if input.Indexed {
			topicArgs = append(topicArgs, []any{args[i]})
		} else {
			dataArgs = append(dataArgs, args[i])
		}
	}

	topics := []nfc.Bytes32{e.id}
	if len(topicArgs) > 0 {
		encoded, err := ethabi.MakeTopics(topicArgs...)
		if err != nil {
			return nil, nil, err
		}
		for _, t := range encoded {
			topics = append(topics, nfc.Bytes32(t[0]))
		}
	}

	data, err := e.argsWithoutIndexed.Pack(dataArgs...)
	if err != nil {
		return nil, nil, err
	}
	return topics, data, nil
}

// DecodeLog decodes topics and data of a log into v,
// either a pointer to struct or a map[string]any.
func (e *Event) DecodeLog(topics []nfc.Bytes32, data []byte, v any) error {
	if len(topics) == 0 || topics[0] != e.id {
		return errors.New("event id mismatch")
	}
	hashes := make([]common.Hash, 0, len(topics)-1)
	for _, t := range topics[1:] {
		hashes = append(hashes, common.Hash(t))
	}

	if m, ok := v.(map[string]any); ok {
		if err := e.argsWithoutIndexed.UnpackIntoMap(m, data); err != nil {
			return err
		}
		return ethabi.ParseTopicsIntoMap(m, e.indexed, hashes)
	}
	if err := e.unpackFields(v, data); err != nil {
		return err
	}
	return ethabi.ParseTopics(v, e.indexed, hashes)
}

// unpackFields sets non-indexed values into the struct fields named after the args.
func (e *Event) unpackFields(v any, data []byte) error {
	if len(e.argsWithoutIndexed) == 0 {
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return errors.New("decode target must be a pointer to struct")
	}
	values, err := e.argsWithoutIndexed.Unpack(data)
	if err != nil {
		return err
	}
	rv = rv.Elem()
	for i, arg := range e.argsWithoutIndexed {
		field := rv.FieldByName(ethabi.ToCamelCase(arg.Name))
		if !field.IsValid() {
			continue
		}
		val := reflect.ValueOf(values[i])
		switch {
		case val.Type().AssignableTo(field.Type()):
			field.Set(val)
		case val.Type().ConvertibleTo(field.Type()):
			field.Set(val.Convert(field.Type()))
		default:
			return fmt.Errorf("abi: cannot set %v into field %s", val.Type(), arg.Name)
		}
	}
	return nil
}
