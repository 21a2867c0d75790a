package trie

import (
	"bytes"
	"fmt"
	"testing"
)

func TestEmptyRootHash(t *testing.T) {
	tr := New()
	want := "56e81f171bcc55a6ff8345e692c0f86e5b48e01b996cadc001622fb5e363b421"
	if got := fmt.Sprintf("%x", tr.RootHash()); got != want {
		t.Fatalf("empty root hash = %s, want %s", got, want)
	}
}

func TestSingleLeaf(t *testing.T) {
	tr := New()
	if err := tr.Insert([]byte("do"), []byte("verb")); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	got, err := tr.Get([]byte("do"))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, []byte("verb")) {
		t.Fatalf("Get(do) = %q, want %q", got, "verb")
	}

	proof, err := tr.GetProof([]byte("do"))
	if err != nil {
		t.Fatalf("GetProof: %v", err)
	}
	if len(proof) != 1 {
		t.Fatalf("proof length = %d, want 1", len(proof))
	}
	if !VerifyProof(tr.RootHash(), []byte("do"), []byte("verb"), proof) {
		t.Fatal("VerifyProof failed for single-leaf trie")
	}
}

func TestCommonPrefixForcesExtensionAndBranch(t *testing.T) {
	tr := New()
	inserts := []struct{ key, value string }{
		{"do", "verb"},
		{"dog", "puppy"},
		{"doge", "coin"},
	}
	for _, kv := range inserts {
		if err := tr.Insert([]byte(kv.key), []byte(kv.value)); err != nil {
			t.Fatalf("Insert(%s): %v", kv.key, err)
		}
	}

	for _, kv := range inserts {
		got, err := tr.Get([]byte(kv.key))
		if err != nil {
			t.Fatalf("Get(%s): %v", kv.key, err)
		}
		if !bytes.Equal(got, []byte(kv.value)) {
			t.Fatalf("Get(%s) = %q, want %q", kv.key, got, kv.value)
		}
	}

	if _, err := tr.Get([]byte("d")); err != ErrNotFound {
		t.Fatalf("Get(d) error = %v, want ErrNotFound", err)
	}

	for _, kv := range inserts {
		proof, err := tr.GetProof([]byte(kv.key))
		if err != nil {
			t.Fatalf("GetProof(%s): %v", kv.key, err)
		}
		if !VerifyProof(tr.RootHash(), []byte(kv.key), []byte(kv.value), proof) {
			t.Fatalf("VerifyProof failed for %s", kv.key)
		}
	}
}

func TestOrderIndependence(t *testing.T) {
	kvs := map[string]string{"a": "1", "b": "2", "ab": "3"}

	t1 := New()
	for _, k := range []string{"a", "b", "ab"} {
		if err := t1.Insert([]byte(k), []byte(kvs[k])); err != nil {
			t.Fatalf("t1 Insert(%s): %v", k, err)
		}
	}

	t2 := New()
	for _, k := range []string{"ab", "b", "a"} {
		if err := t2.Insert([]byte(k), []byte(kvs[k])); err != nil {
			t.Fatalf("t2 Insert(%s): %v", k, err)
		}
	}

	if !bytes.Equal(t1.RootHash(), t2.RootHash()) {
		t.Fatalf("root hashes differ: %x != %x", t1.RootHash(), t2.RootHash())
	}
}

func TestOverwrite(t *testing.T) {
	t1 := New()
	if err := t1.Insert([]byte("k"), []byte("v1")); err != nil {
		t.Fatalf("Insert v1: %v", err)
	}
	if err := t1.Insert([]byte("k"), []byte("v2")); err != nil {
		t.Fatalf("Insert v2: %v", err)
	}

	got, err := t1.Get([]byte("k"))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, []byte("v2")) {
		t.Fatalf("Get(k) = %q, want %q", got, "v2")
	}

	t2 := New()
	if err := t2.Insert([]byte("k"), []byte("v2")); err != nil {
		t.Fatalf("Insert into fresh trie: %v", err)
	}

	if !bytes.Equal(t1.RootHash(), t2.RootHash()) {
		t.Fatalf("overwrite root hash = %x, want %x", t1.RootHash(), t2.RootHash())
	}
}

func TestProofPortability(t *testing.T) {
	tr := New()
	for _, kv := range [][2]string{{"do", "verb"}, {"dog", "puppy"}, {"doge", "coin"}} {
		if err := tr.Insert([]byte(kv[0]), []byte(kv[1])); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	root := tr.RootHash()
	proof, err := tr.GetProof([]byte("dog"))
	if err != nil {
		t.Fatalf("GetProof: %v", err)
	}

	tr = nil // simulate the trie being discarded; only root+proof survive

	if !VerifyProof(root, []byte("dog"), []byte("puppy"), proof) {
		t.Fatal("VerifyProof failed against a surviving root and proof")
	}

	for i := range proof {
		tampered := make([][]byte, len(proof))
		for j := range proof {
			tampered[j] = append([]byte(nil), proof[j]...)
		}
		if len(tampered[i]) == 0 {
			continue
		}
		tampered[i][0] ^= 0xFF
		if VerifyProof(root, []byte("dog"), []byte("puppy"), tampered) {
			t.Fatalf("VerifyProof succeeded after tampering with proof element %d", i)
		}
	}
}

func TestGetProofNotFound(t *testing.T) {
	tr := New()
	if err := tr.Insert([]byte("do"), []byte("verb")); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if _, err := tr.GetProof([]byte("dog")); err != ErrNotFound {
		t.Fatalf("GetProof(dog) error = %v, want ErrNotFound", err)
	}
}

func TestGetProofOfAbsence(t *testing.T) {
	tr := New(WithProofOfAbsence(true))
	if err := tr.Insert([]byte("do"), []byte("verb")); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	proof, err := tr.GetProof([]byte("dog"))
	if err != nil {
		t.Fatalf("GetProof(dog) with proof-of-absence enabled: %v", err)
	}
	if len(proof) == 0 {
		t.Fatal("expected a non-empty divergence path for proof of absence")
	}
}

func TestInsertRejectsEmptyKey(t *testing.T) {
	tr := New()
	if err := tr.Insert(nil, []byte("v")); err != ErrEmptyKey {
		t.Fatalf("Insert(nil key) error = %v, want ErrEmptyKey", err)
	}
}

func TestGetOnEmptyTrie(t *testing.T) {
	tr := New()
	if _, err := tr.Get([]byte("anything")); err != ErrNotFound {
		t.Fatalf("Get on empty trie error = %v, want ErrNotFound", err)
	}
}

func TestManyKeysGetAndVerifyProof(t *testing.T) {
	keys := []string{"alpha", "alphabet", "beta", "gamma", "gammaray", "delta1", "delta2"}

	tr := New()
	for i, k := range keys {
		if err := tr.Insert([]byte(k), []byte(fmt.Sprintf("value-%d", i))); err != nil {
			t.Fatalf("Insert(%s): %v", k, err)
		}
	}

	for i, k := range keys {
		got, err := tr.Get([]byte(k))
		if err != nil {
			t.Fatalf("Get(%s): %v", k, err)
		}
		want := fmt.Sprintf("value-%d", i)
		if string(got) != want {
			t.Fatalf("Get(%s) = %q, want %q", k, got, want)
		}

		proof, err := tr.GetProof([]byte(k))
		if err != nil {
			t.Fatalf("GetProof(%s): %v", k, err)
		}
		if !VerifyProof(tr.RootHash(), []byte(k), []byte(want), proof) {
			t.Fatalf("VerifyProof failed for %s", k)
		}
	}
}
