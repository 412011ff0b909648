package state

import (
	"encoding/json"
	"fmt"
	"io"
)

type envelope struct {
	Type string `json:"type"`
}

// DecodeActions reads a JSON array of actions. Each item names its kind in a
// "type" field next to the action's own fields:
//
//	[{"type": "add_defect_instance", "report_id": "r1", "category": "rot", "severity": "serious"}]
func DecodeActions(r io.Reader) ([]Action, error) {
	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("state: decoding actions: %w", err)
	}

	actions := make([]Action, 0, len(raw))
	for i, item := range raw {
		a, err := decodeAction(item)
		if err != nil {
			return nil, fmt.Errorf("state: action %d: %w", i, err)
		}
		actions = append(actions, a)
	}
	return actions, nil
}

func decodeAction(item json.RawMessage) (Action, error) {
	var env envelope
	if err := json.Unmarshal(item, &env); err != nil {
		return nil, err
	}

	switch env.Type {
	case KindAddElement:
		return decodeInto[AddElement](item)
	case KindRemoveElement:
		return decodeInto[RemoveElement](item)
	case KindEditElement:
		return decodeInto[EditElement](item)
	case KindAddDefectToCatalog:
		return decodeInto[AddDefectToCatalog](item)
	case KindRemoveDefectFromCatalog:
		return decodeInto[RemoveDefectFromCatalog](item)
	case KindAddInspectionReport:
		return decodeInto[AddInspectionReport](item)
	case KindRemoveInspectionReport:
		return decodeInto[RemoveInspectionReport](item)
	case KindEditInspectionReport:
		return decodeInto[EditInspectionReport](item)
	case KindAddDefectInstance:
		return decodeInto[AddDefectInstance](item)
	case KindEditDefectInstance:
		return decodeInto[EditDefectInstance](item)
	case KindRemoveDefectInstance:
		return decodeInto[RemoveDefectInstance](item)
	case KindAddTask:
		return decodeInto[AddTask](item)
	case KindEditTask:
		return decodeInto[EditTask](item)
	case KindRemoveTask:
		return decodeInto[RemoveTask](item)
	case KindAttachMedia:
		return decodeInto[AttachMedia](item)
	case KindRescoreAll:
		return RescoreAll{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, env.Type)
	}
}

func decodeInto[T Action](item json.RawMessage) (Action, error) {
	var a T
	if err := json.Unmarshal(item, &a); err != nil {
		return nil, err
	}
	return a, nil
}
