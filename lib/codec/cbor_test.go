// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"strings"
	"testing"
)

type sampleManifest struct {
	Version   int    `cbor:"1,keyasint"`
	Count     int    `cbor:"2,keyasint"`
	Container []byte `cbor:"3,keyasint"`
}

func TestMarshalUnmarshalRoundtrip(t *testing.T) {
	original := sampleManifest{Version: 1, Count: 3, Container: []byte{3, 3, 4, 21}}

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded sampleManifest
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Version != original.Version || decoded.Count != original.Count ||
		!bytes.Equal(decoded.Container, original.Container) {
		t.Errorf("roundtrip mismatch: got %+v, want %+v", decoded, original)
	}
}

func TestMarshalDeterministic(t *testing.T) {
	first, err := Marshal(map[string]int{"zeta": 1, "alpha": 2, "mid": 3})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for range 20 {
		again, err := Marshal(map[string]int{"mid": 3, "alpha": 2, "zeta": 1})
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("non-deterministic encoding: %x vs %x", first, again)
		}
	}
}

func TestUnmarshalRejectsDuplicateKeys(t *testing.T) {
	// {1: 1, 1: 2}
	data := []byte{0xa2, 0x01, 0x01, 0x01, 0x02}
	var decoded sampleManifest
	if err := Unmarshal(data, &decoded); err == nil {
		t.Fatal("Unmarshal accepted a map with duplicate keys")
	}
}

func TestUnmarshalRejectsTrailingData(t *testing.T) {
	data, err := Marshal(sampleManifest{Version: 1})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	data = append(data, 0x00)
	var decoded sampleManifest
	if err := Unmarshal(data, &decoded); err == nil {
		t.Fatal("Unmarshal accepted trailing bytes")
	}
}

func TestDiagnose(t *testing.T) {
	data, err := Marshal(sampleManifest{Version: 1, Count: 2, Container: []byte{0xff}})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	diagnostic, err := Diagnose(data)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	for _, want := range []string{"1: 1", "2: 2", "h'ff'"} {
		if !strings.Contains(diagnostic, want) {
			t.Errorf("Diagnose = %q, missing %q", diagnostic, want)
		}
	}
}
