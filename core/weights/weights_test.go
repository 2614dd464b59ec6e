// core/weights/weights_test.go
package weights

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"testing"

	"ribopred-core/encoder"
)

func testConfig() encoder.Config {
	return encoder.Config{
		Dim:         8,
		Depth:       2,
		HeadSize:    4,
		FFNMult:     2,
		Vocab:       4,
		OutChannels: 2,
		PosScale:    10000,
		NormEps:     1e-5,
	}
}

func saveArtifact(t *testing.T) (encoder.Config, *encoder.Weights, []byte) {
	t.Helper()
	cfg := testConfig()
	w := encoder.NewRandomWeights(cfg, 1)
	var buf bytes.Buffer
	if err := Save(&buf, cfg, w); err != nil {
		t.Fatalf("save: %v", err)
	}
	return cfg, w, buf.Bytes()
}

// mutateHeader rewrites the JSON header in place, fixing up the
// declared length, and leaves the payload untouched.
func mutateHeader(t *testing.T, art []byte, f func(*headerJSON)) []byte {
	t.Helper()
	hlen := binary.LittleEndian.Uint32(art[4:8])
	var hdr headerJSON
	if err := json.Unmarshal(art[8:8+int(hlen)], &hdr); err != nil {
		t.Fatalf("unmarshal header: %v", err)
	}
	f(&hdr)
	hbuf, err := json.Marshal(&hdr)
	if err != nil {
		t.Fatalf("marshal header: %v", err)
	}
	out := append([]byte{}, art[:4]...)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(hbuf)))
	out = append(out, hbuf...)
	return append(out, art[8+int(hlen):]...)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	cfg, w, art := saveArtifact(t)

	gotCfg, got, err := Load(bytes.NewReader(art))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if gotCfg != cfg {
		t.Fatalf("config = %+v, want %+v", gotCfg, cfg)
	}

	// Payloads are float32, so loaded values equal the narrowed
	// originals exactly.
	er, ec := w.Embedding.Dims()
	for i := 0; i < er; i++ {
		for j := 0; j < ec; j++ {
			want := float64(float32(w.Embedding.At(i, j)))
			if got.Embedding.At(i, j) != want {
				t.Fatalf("embedding[%d][%d] = %v, want %v", i, j, got.Embedding.At(i, j), want)
			}
		}
	}
	for i := range w.Blocks[1].B2 {
		want := float64(float32(w.Blocks[1].B2[i]))
		if got.Blocks[1].B2[i] != want {
			t.Fatalf("block bias[%d] = %v, want %v", i, got.Blocks[1].B2[i], want)
		}
	}

	// A second save of the loaded weights is byte-identical: every
	// value is already float32-representable.
	var again bytes.Buffer
	if err := Save(&again, gotCfg, got); err != nil {
		t.Fatalf("re-save: %v", err)
	}
	if !bytes.Equal(again.Bytes(), art) {
		t.Fatalf("re-saved artifact differs from original")
	}
}

func TestLoadBadMagic(t *testing.T) {
	_, _, art := saveArtifact(t)
	art[0] = 'X'

	_, _, err := Load(bytes.NewReader(art))
	if !errors.Is(err, ErrNotWeights) {
		t.Fatalf("err = %v, want ErrNotWeights", err)
	}
}

func TestLoadTruncatedPayload(t *testing.T) {
	_, _, art := saveArtifact(t)

	if _, _, err := Load(bytes.NewReader(art[:len(art)-8])); err == nil {
		t.Fatalf("truncated payload must fail to load")
	}
}

func TestLoadTrailingData(t *testing.T) {
	_, _, art := saveArtifact(t)

	_, _, err := Load(bytes.NewReader(append(art, 0)))
	var sm *ShapeMismatchError
	if !errors.As(err, &sm) {
		t.Fatalf("err = %v, want ShapeMismatchError", err)
	}
}

func TestLoadWrongTensorShape(t *testing.T) {
	_, _, art := saveArtifact(t)
	art = mutateHeader(t, art, func(h *headerJSON) {
		h.Tensors[0].Rows++
	})

	_, _, err := Load(bytes.NewReader(art))
	var sm *ShapeMismatchError
	if !errors.As(err, &sm) {
		t.Fatalf("err = %v, want ShapeMismatchError", err)
	}
	if sm.Tensor != "embed.weight" {
		t.Fatalf("mismatch names tensor %q, want embed.weight", sm.Tensor)
	}
}

func TestLoadUnknownTensor(t *testing.T) {
	_, _, art := saveArtifact(t)
	art = mutateHeader(t, art, func(h *headerJSON) {
		h.Tensors[3].Name = "enc.0.attn.wz.weight"
	})

	_, _, err := Load(bytes.NewReader(art))
	var sm *ShapeMismatchError
	if !errors.As(err, &sm) {
		t.Fatalf("err = %v, want ShapeMismatchError", err)
	}
}
