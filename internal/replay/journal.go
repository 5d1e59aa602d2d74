// Package replay records and reads match journals: the header, every
// directive applied to the world with its tick index, and an end record
// carrying the winner and a world digest. Re-driving a fresh world from a
// journal must reproduce the digest bit for bit; the match package implements
// that check on top of this file format.
package replay

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/photonfront/server/internal/scripting"
	"github.com/photonfront/server/internal/world"
)

// Journal file layout: a 4-byte magic, a version byte, then framed records.
// Every record is [length uint16][kind byte][payload]; the first record is
// always the header.
const (
	version = 1

	recHeader    = 0x01
	recDirective = 0x10
	recEnd       = 0xFF
)

var magic = [4]byte{'P', 'F', 'R', 'J'}

// Header identifies the match a journal belongs to and carries every
// parameter needed to re-drive it bit for bit: arena, base types, enabled
// unit set and the full tuning block. Unit/base/arena tables still come from
// the data files, which must match the recording side.
type Header struct {
	MatchID      string
	Arena        string
	Scenario     string
	TickRate     time.Duration
	TimeLimit    float64
	Bases        [2]string
	EnabledUnits []string // empty = every loaded type
	Tuning       world.Tuning
}

// Event is one recorded directive with the tick it was applied on.
type Event struct {
	Tick      int
	Directive scripting.Directive
}

// End closes a journal: the decided winner (-1 for a draw), the tick count,
// and the world digest at that point.
type End struct {
	Winner int
	Ticks  int
	Digest uint64
}

// Journal appends match records to a stream. Not safe for concurrent use;
// the match runner owns it for the lifetime of one match.
type Journal struct {
	w io.Writer
}

// NewJournal writes the magic and header and returns the open journal.
func NewJournal(w io.Writer, h Header) (*Journal, error) {
	j := &Journal{w: w}
	if _, err := w.Write(magic[:]); err != nil {
		return nil, fmt.Errorf("write journal magic: %w", err)
	}
	if _, err := w.Write([]byte{version}); err != nil {
		return nil, fmt.Errorf("write journal version: %w", err)
	}

	payload := NewWriter()
	payload.WriteS(h.MatchID)
	payload.WriteS(h.Arena)
	payload.WriteS(h.Scenario)
	payload.WriteD(int32(h.TickRate / time.Millisecond))
	payload.WriteF(h.TimeLimit)
	payload.WriteS(h.Bases[0])
	payload.WriteS(h.Bases[1])
	payload.WriteH(uint16(len(h.EnabledUnits)))
	for _, u := range h.EnabledUnits {
		payload.WriteS(u)
	}
	payload.WriteD(int32(h.Tuning.QueueCap))
	payload.WriteF(h.Tuning.PromotionThreshold)
	payload.WriteF(h.Tuning.PromotionFactor)
	payload.WriteF(h.Tuning.QueueBonus)
	payload.WriteF(h.Tuning.ShieldFactor)
	payload.WriteF(h.Tuning.IncomeStep)
	payload.WriteF(h.Tuning.StartingPhotons)
	if err := j.writeRecord(recHeader, payload.Bytes()); err != nil {
		return nil, err
	}
	return j, nil
}

// Record appends one applied directive.
func (j *Journal) Record(tick int, d scripting.Directive) error {
	payload := NewWriter()
	payload.WriteD(int32(tick))
	payload.WriteS(d.Type)
	payload.WriteC(byte(d.Owner))
	payload.WriteS(d.Unit)
	payload.WriteD(d.ID)
	payload.WriteF(d.X)
	payload.WriteF(d.Y)
	payload.WriteF(d.DirX)
	payload.WriteF(d.DirY)
	return j.writeRecord(recDirective, payload.Bytes())
}

// Finish appends the end record. The journal is complete after this.
func (j *Journal) Finish(winner, ticks int, digest uint64) error {
	payload := NewWriter()
	payload.WriteD(int32(winner))
	payload.WriteD(int32(ticks))
	payload.WriteQ(digest)
	return j.writeRecord(recEnd, payload.Bytes())
}

func (j *Journal) writeRecord(kind byte, payload []byte) error {
	frame := NewWriter()
	frame.WriteH(uint16(len(payload)))
	frame.WriteC(kind)
	frame.WriteBytes(payload)
	if _, err := j.w.Write(frame.Bytes()); err != nil {
		return fmt.Errorf("write journal record: %w", err)
	}
	return nil
}

// Recording is a fully parsed journal. Complete reports whether the end
// record was present; a journal cut off mid-match parses with Complete false.
type Recording struct {
	Header   Header
	Events   []Event
	End      End
	Complete bool
}

// Load reads and parses the journal at path.
func Load(path string) (*Recording, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read journal %s: %w", path, err)
	}
	rec, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse journal %s: %w", path, err)
	}
	return rec, nil
}

// Parse decodes a journal from raw bytes.
func Parse(data []byte) (*Recording, error) {
	if len(data) < len(magic)+1 {
		return nil, fmt.Errorf("journal too short: %d bytes", len(data))
	}
	for i, b := range magic {
		if data[i] != b {
			return nil, fmt.Errorf("not a replay journal")
		}
	}
	if v := data[len(magic)]; v != version {
		return nil, fmt.Errorf("unsupported journal version %d", v)
	}

	rec := &Recording{}
	sawHeader := false
	off := len(magic) + 1
	for off < len(data) {
		if rec.Complete {
			return nil, fmt.Errorf("journal continues past the end record")
		}
		if off+3 > len(data) {
			return nil, fmt.Errorf("truncated record frame at offset %d", off)
		}
		length := int(uint16(data[off]) | uint16(data[off+1])<<8)
		kind := data[off+2]
		off += 3
		if off+length > len(data) {
			return nil, fmt.Errorf("truncated record payload at offset %d", off)
		}
		r := NewReader(data[off : off+length])
		off += length

		switch kind {
		case recHeader:
			h := Header{
				MatchID:   r.ReadS(),
				Arena:     r.ReadS(),
				Scenario:  r.ReadS(),
				TickRate:  time.Duration(r.ReadD()) * time.Millisecond,
				TimeLimit: r.ReadF(),
			}
			h.Bases[0] = r.ReadS()
			h.Bases[1] = r.ReadS()
			for n := int(r.ReadH()); n > 0; n-- {
				h.EnabledUnits = append(h.EnabledUnits, r.ReadS())
			}
			h.Tuning = world.Tuning{
				QueueCap:           int(r.ReadD()),
				PromotionThreshold: r.ReadF(),
				PromotionFactor:    r.ReadF(),
				QueueBonus:         r.ReadF(),
				ShieldFactor:       r.ReadF(),
				IncomeStep:         r.ReadF(),
				StartingPhotons:    r.ReadF(),
			}
			rec.Header = h
			sawHeader = true
		case recDirective:
			if !sawHeader {
				return nil, fmt.Errorf("directive record before the header")
			}
			ev := Event{Tick: int(r.ReadD())}
			ev.Directive = scripting.Directive{
				Type:  r.ReadS(),
				Owner: int(r.ReadC()),
				Unit:  r.ReadS(),
				ID:    r.ReadD(),
				X:     r.ReadF(),
				Y:     r.ReadF(),
				DirX:  r.ReadF(),
				DirY:  r.ReadF(),
			}
			rec.Events = append(rec.Events, ev)
		case recEnd:
			rec.End = End{
				Winner: int(r.ReadD()),
				Ticks:  int(r.ReadD()),
				Digest: r.ReadQ(),
			}
			rec.Complete = true
		default:
			return nil, fmt.Errorf("unknown record kind 0x%02x", kind)
		}
	}
	if !sawHeader {
		return nil, fmt.Errorf("journal has no header record")
	}
	return rec, nil
}
