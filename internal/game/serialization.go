package game

import (
	"bytes"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// ChecksumVersion changes whenever the canonical representation does.
const ChecksumVersion = 1

// SerializationChecksum is a digest of a game state. Two states with the
// same checksum are identical for every rules purpose, so replays and
// independent runs can be compared cheaply.
type SerializationChecksum struct {
	Hash    string // SHA-256 of the canonical representation
	Version int
}

// ComputeChecksum hashes the canonical representation of s.
func (s *GameState) ComputeChecksum() (*SerializationChecksum, error) {
	hash := sha256.New()
	if _, err := hash.Write([]byte(s.canonical())); err != nil {
		return nil, fmt.Errorf("failed to compute hash: %w", err)
	}
	return &SerializationChecksum{
		Hash:    hex.EncodeToString(hash.Sum(nil)),
		Version: ChecksumVersion,
	}, nil
}

// Checksum is ComputeChecksum reduced to the hash string. SHA-256 over an
// in-memory buffer cannot fail.
func (s *GameState) Checksum() string {
	sum, _ := s.ComputeChecksum()
	return sum.Hash
}

// canonical renders every rules-relevant field in a fixed order, with the
// supply walked in catalog order rather than map order.
func (s *GameState) canonical() string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "GAME:%d|%s|%d|%s|%d\n",
		s.CurrentPlayer, s.Phase, s.TurnNumber, s.Seed, uint32(s.RNG))

	for _, name := range s.SupplyNames() {
		fmt.Fprintf(&buf, "SUPPLY:%s=%d\n", name, s.Supply[name])
	}
	fmt.Fprintf(&buf, "TRASH:%s\n", strings.Join(s.Trash, ","))

	for i := range s.Players {
		p := &s.Players[i]
		fmt.Fprintf(&buf, "PLAYER:%d|%d|%d|%d\n", i, p.Actions, p.Buys, p.Coins)
		fmt.Fprintf(&buf, "  HAND:%s\n", strings.Join(p.Hand, ","))
		fmt.Fprintf(&buf, "  DECK:%s\n", strings.Join(p.DrawPile, ","))
		fmt.Fprintf(&buf, "  DISCARD:%s\n", strings.Join(p.Discard, ","))
		fmt.Fprintf(&buf, "  INPLAY:%s\n", strings.Join(p.InPlay, ","))
		fmt.Fprintf(&buf, "  ASIDE:%s\n", strings.Join(p.Aside, ","))
	}

	if pe := s.Pending; pe != nil {
		fmt.Fprintf(&buf, "PENDING:%s|%s|%d|%d|%d|%s|%s|%s|%s|%d\n",
			pe.Card, pe.Effect, pe.TargetPlayer, pe.MaxTrash, pe.MaxGainCost,
			pe.TrashedCard, pe.Destination, pe.RevealedCard, pe.DrawnCard, pe.TargetHandSize)
		fmt.Fprintf(&buf, "  TARGETS:%v\n", pe.Targets)
		fmt.Fprintf(&buf, "  REPLAYS:%s\n", strings.Join(pe.Replays, ","))
	}

	return buf.String()
}

// VerifyChecksum reports whether s still matches expected.
func (s *GameState) VerifyChecksum(expected *SerializationChecksum) (bool, error) {
	computed, err := s.ComputeChecksum()
	if err != nil {
		return false, fmt.Errorf("failed to compute checksum: %w", err)
	}
	return computed.Hash == expected.Hash, nil
}

// SerializeToBytes gob-encodes s. This is the format replay files use.
func (s *GameState) SerializeToBytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return nil, fmt.Errorf("failed to encode state: %w", err)
	}
	return buf.Bytes(), nil
}

// DeserializeFromBytes decodes a state written by SerializeToBytes.
func DeserializeFromBytes(data []byte) (*GameState, error) {
	var state GameState
	if err := gob.NewDecoder(bytes.NewBuffer(data)).Decode(&state); err != nil {
		return nil, fmt.Errorf("failed to decode state: %w", err)
	}
	return &state, nil
}

// MarshalState renders s as JSON for stores and transport.
func MarshalState(s *GameState) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal state: %w", err)
	}
	return data, nil
}

// UnmarshalState parses JSON written by MarshalState.
func UnmarshalState(data []byte) (*GameState, error) {
	var state GameState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state: %w", err)
	}
	return &state, nil
}

// ValidateSerializationRoundtrip checks that s survives gob encoding with
// an unchanged checksum.
func ValidateSerializationRoundtrip(s *GameState) error {
	original, err := s.ComputeChecksum()
	if err != nil {
		return fmt.Errorf("failed to compute original checksum: %w", err)
	}

	data, err := s.SerializeToBytes()
	if err != nil {
		return fmt.Errorf("failed to serialize: %w", err)
	}

	decoded, err := DeserializeFromBytes(data)
	if err != nil {
		return fmt.Errorf("failed to deserialize: %w", err)
	}

	match, err := decoded.VerifyChecksum(original)
	if err != nil {
		return err
	}
	if !match {
		return fmt.Errorf("checksum mismatch after roundtrip")
	}
	return nil
}
