// Package wire encodes and decodes task lifecycle events as JSON lines.
//
// This is the serialized form of the windowing collaborator's inbound
// boundary, used to replay recorded sessions through the organizer and to
// log events in a machine-readable way. One event per line:
//
//	{"event":"appeared","task":{"id":1,"mode":"fullscreen","visible":true},"leash":"<token>"}
//	{"event":"infoChanged","task":{"id":1,"mode":"split","visible":true}}
//	{"event":"vanished","task":{"id":1,"mode":"split"}}
//	{"event":"backPressed","task":{"id":1,"mode":"split"}}
package wire

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/taskorg/internal/organizer"
	"github.com/dshills/taskorg/internal/task"
)

// Wire errors.
var (
	// ErrInvalidEvent indicates malformed JSON or a missing required field.
	ErrInvalidEvent = errors.New("wire: invalid event")

	// ErrUnknownKind indicates an unrecognized event kind.
	ErrUnknownKind = errors.New("wire: unknown event kind")
)

// Kind names a lifecycle event on the wire.
type Kind string

// Wire event kinds.
const (
	KindAppeared    Kind = "appeared"
	KindInfoChanged Kind = "infoChanged"
	KindVanished    Kind = "vanished"
	KindBackPressed Kind = "backPressed"
)

// Event is one decoded lifecycle event.
type Event struct {
	// Kind is the lifecycle event kind.
	Kind Kind

	// Info is the task descriptor carried by the event.
	Info task.Info

	// Leash is the surface handle; set only for appeared events.
	Leash *task.Surface
}

// Decode parses one JSON event line.
func Decode(data []byte) (Event, error) {
	if !gjson.ValidBytes(data) {
		return Event{}, fmt.Errorf("%w: not valid JSON", ErrInvalidEvent)
	}

	kind := Kind(gjson.GetBytes(data, "event").String())
	switch kind {
	case KindAppeared, KindInfoChanged, KindVanished, KindBackPressed:
	case "":
		return Event{}, fmt.Errorf("%w: missing event field", ErrInvalidEvent)
	default:
		return Event{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	id := gjson.GetBytes(data, "task.id")
	if !id.Exists() {
		return Event{}, fmt.Errorf("%w: missing task.id", ErrInvalidEvent)
	}

	modeName := gjson.GetBytes(data, "task.mode")
	if !modeName.Exists() {
		return Event{}, fmt.Errorf("%w: missing task.mode", ErrInvalidEvent)
	}
	mode, ok := task.ParseWindowingMode(modeName.String())
	if !ok {
		return Event{}, fmt.Errorf("%w: unrecognized task.mode %q", ErrInvalidEvent, modeName.String())
	}

	ev := Event{
		Kind: kind,
		Info: task.Info{
			ID:      task.ID(id.Int()),
			Mode:    mode,
			Visible: gjson.GetBytes(data, "task.visible").Bool(),
			Title:   gjson.GetBytes(data, "task.title").String(),
			Bounds: task.Bounds{
				X:      int(gjson.GetBytes(data, "task.bounds.x").Int()),
				Y:      int(gjson.GetBytes(data, "task.bounds.y").Int()),
				Width:  int(gjson.GetBytes(data, "task.bounds.width").Int()),
				Height: int(gjson.GetBytes(data, "task.bounds.height").Int()),
			},
		},
	}

	if kind == KindAppeared {
		token := gjson.GetBytes(data, "leash")
		if !token.Exists() || token.String() == "" {
			return Event{}, fmt.Errorf("%w: appeared event missing leash", ErrInvalidEvent)
		}
		ev.Leash = task.SurfaceFromToken(token.String())
	}

	return ev, nil
}

// Encode renders one event as a JSON line (without trailing newline).
func Encode(ev Event) ([]byte, error) {
	out := []byte("{}")

	var err error
	set := func(path string, value any) {
		if err != nil {
			return
		}
		out, err = sjson.SetBytes(out, path, value)
	}

	set("event", string(ev.Kind))
	set("task.id", int64(ev.Info.ID))
	set("task.mode", ev.Info.Mode.String())
	set("task.visible", ev.Info.Visible)
	if ev.Info.Title != "" {
		set("task.title", ev.Info.Title)
	}
	set("task.bounds.x", ev.Info.Bounds.X)
	set("task.bounds.y", ev.Info.Bounds.Y)
	set("task.bounds.width", ev.Info.Bounds.Width)
	set("task.bounds.height", ev.Info.Bounds.Height)
	if ev.Kind == KindAppeared {
		set("leash", ev.Leash.Token())
	}
	if err != nil {
		return nil, fmt.Errorf("wire: encode: %w", err)
	}
	return out, nil
}

// Apply routes one decoded event into the organizer. The error, if any, is
// the organizer's (protocol violations on infoChanged/vanished).
func Apply(org *organizer.Organizer, ev Event) error {
	switch ev.Kind {
	case KindAppeared:
		org.OnTaskAppeared(ev.Info, ev.Leash)
		return nil
	case KindInfoChanged:
		return org.OnTaskInfoChanged(ev.Info)
	case KindVanished:
		return org.OnTaskVanished(ev.Info)
	case KindBackPressed:
		org.OnBackPressedOnTaskRoot(ev.Info)
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, ev.Kind)
	}
}
