package vault

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/xiunchen/passgen/internal/container"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return New(filepath.Join(t.TempDir(), VaultFile))
}

func TestInitializeAndLoad(t *testing.T) {
	engine := newTestEngine(t)
	passphrase := []byte("correct-horse")

	if engine.IsInitialized() {
		t.Fatal("fresh engine must not report initialized")
	}
	if err := engine.Initialize(passphrase); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if !engine.IsInitialized() {
		t.Fatal("engine must report initialized after Initialize")
	}

	if err := engine.Initialize(passphrase); !errors.Is(err, ErrAlreadyInitialized) {
		t.Errorf("second Initialize = %v, want ErrAlreadyInitialized", err)
	}

	collection, err := engine.Load(passphrase)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if collection.Version != CollectionVersion {
		t.Errorf("Version = %q, want %q", collection.Version, CollectionVersion)
	}
	if len(collection.Entries) != 0 {
		t.Errorf("new vault must be empty, got %d entries", len(collection.Entries))
	}
}

func TestLoad_WrongPassphrase(t *testing.T) {
	engine := newTestEngine(t)
	if err := engine.Initialize([]byte("right")); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	if _, err := engine.Load([]byte("wrong")); !errors.Is(err, ErrWrongPassphrase) {
		t.Errorf("Load(wrong) = %v, want ErrWrongPassphrase", err)
	}
}

func TestLoad_NotInitialized(t *testing.T) {
	engine := newTestEngine(t)
	if _, err := engine.Load([]byte("any")); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Load on missing vault = %v, want ErrNotInitialized", err)
	}
}

func TestLoad_BadMagic(t *testing.T) {
	engine := newTestEngine(t)
	if err := os.WriteFile(engine.Path(), []byte("not a vault file at all, definitely not PGv2 sized header content.............................."), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if _, err := engine.Load([]byte("any")); !errors.Is(err, container.ErrFormat) {
		t.Errorf("Load on foreign file = %v, want ErrFormat", err)
	}
	if engine.IsInitialized() {
		t.Error("file without magic must not count as initialized")
	}
}

func TestLoad_TruncatedFile(t *testing.T) {
	engine := newTestEngine(t)
	if err := engine.Initialize([]byte("pass")); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	data, err := os.ReadFile(engine.Path())
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if err := os.WriteFile(engine.Path(), data[:container.HeaderSize-10], 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if _, err := engine.Load([]byte("pass")); !errors.Is(err, container.ErrFormat) {
		t.Errorf("Load on truncated file = %v, want ErrFormat", err)
	}
}

func TestVerifyMasterPassphrase_Idempotent(t *testing.T) {
	engine := newTestEngine(t)
	passphrase := []byte("correct-horse")
	if err := engine.Initialize(passphrase); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	before, err := os.ReadFile(engine.Path())
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		ok, err := engine.VerifyMasterPassphrase(passphrase)
		if err != nil {
			t.Fatalf("VerifyMasterPassphrase failed: %v", err)
		}
		if !ok {
			t.Fatal("correct passphrase must verify")
		}
	}
	ok, err := engine.VerifyMasterPassphrase([]byte("nope"))
	if err != nil {
		t.Fatalf("VerifyMasterPassphrase failed: %v", err)
	}
	if ok {
		t.Error("wrong passphrase must not verify")
	}

	after, err := os.ReadFile(engine.Path())
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !bytes.Equal(before, after) {
		t.Error("VerifyMasterPassphrase must not modify the vault file")
	}
}

func TestSave_NonceFreshAndSaltsStable(t *testing.T) {
	engine := newTestEngine(t)
	passphrase := []byte("pass")
	if err := engine.Initialize(passphrase); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	collection, err := engine.Load(passphrase)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	hdr1 := readHeader(t, engine)
	if err := engine.Save(collection, passphrase); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	hdr2 := readHeader(t, engine)
	if err := engine.Save(collection, passphrase); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	hdr3 := readHeader(t, engine)

	if bytes.Equal(hdr1.Nonce, hdr2.Nonce) || bytes.Equal(hdr2.Nonce, hdr3.Nonce) {
		t.Error("every save must use a fresh nonce")
	}
	if !bytes.Equal(hdr1.EncryptSalt, hdr3.EncryptSalt) || !bytes.Equal(hdr1.VerifySalt, hdr3.VerifySalt) {
		t.Error("plain saves must keep both salts stable")
	}
	if !bytes.Equal(hdr1.VerifyHash, hdr3.VerifyHash) {
		t.Error("plain saves must keep the verify hash stable")
	}
	if bytes.Equal(hdr1.VerifySalt, hdr1.EncryptSalt) {
		t.Error("verify and encrypt salts must be distinct")
	}
}

func TestSave_WrongPassphrase(t *testing.T) {
	engine := newTestEngine(t)
	if err := engine.Initialize([]byte("right")); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if err := engine.Save(NewCollection(), []byte("wrong")); !errors.Is(err, ErrWrongPassphrase) {
		t.Errorf("Save(wrong) = %v, want ErrWrongPassphrase", err)
	}
}

func TestTamperDetection(t *testing.T) {
	engine := newTestEngine(t)
	passphrase := []byte("correct-horse")
	if err := engine.Initialize(passphrase); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	addEntry(t, engine, passphrase, "github.com", "u1")

	data, err := os.ReadFile(engine.Path())
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	// Flip one ciphertext byte; the verify hash still matches, so the
	// failure must surface as DecryptionFailed, not WrongPassphrase.
	data[container.HeaderSize] ^= 0x01
	if err := os.WriteFile(engine.Path(), data, 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	_, err = engine.Load(passphrase)
	if !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("Load on tampered vault = %v, want ErrDecryptionFailed", err)
	}
}

func TestChangePassphraseScenario(t *testing.T) {
	engine := newTestEngine(t)
	oldPass, newPass := []byte("old"), []byte("new")
	if err := engine.Initialize(oldPass); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	id := addEntry(t, engine, oldPass, "github.com", "u1")

	hdrBefore := readHeader(t, engine)

	if err := engine.ChangePassphrase([]byte("bogus"), newPass); !errors.Is(err, ErrWrongPassphrase) {
		t.Fatalf("ChangePassphrase with wrong current = %v, want ErrWrongPassphrase", err)
	}
	if err := engine.ChangePassphrase(oldPass, newPass); err != nil {
		t.Fatalf("ChangePassphrase failed: %v", err)
	}

	if _, err := engine.Load(oldPass); !errors.Is(err, ErrWrongPassphrase) {
		t.Errorf("Load(old) after re-key = %v, want ErrWrongPassphrase", err)
	}
	collection, err := engine.Load(newPass)
	if err != nil {
		t.Fatalf("Load(new) failed: %v", err)
	}
	if len(collection.Entries) != 1 || collection.Entries[0].ID != id {
		t.Error("entries must survive a passphrase change intact")
	}

	hdrAfter := readHeader(t, engine)
	if bytes.Equal(hdrBefore.VerifySalt, hdrAfter.VerifySalt) ||
		bytes.Equal(hdrBefore.EncryptSalt, hdrAfter.EncryptSalt) ||
		bytes.Equal(hdrBefore.VerifyHash, hdrAfter.VerifyHash) {
		t.Error("ChangePassphrase must regenerate both salts and the verify hash")
	}
}

func TestRecoveryScenario(t *testing.T) {
	source := newTestEngine(t)
	passphrase := []byte("correct-horse")
	if err := source.Initialize(passphrase); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	id := addEntry(t, source, passphrase, "github.com", "u1")

	// Byte-for-byte copy, as if synced from another device.
	backupPath := filepath.Join(t.TempDir(), "backup.db")
	data, err := os.ReadFile(source.Path())
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if err := os.WriteFile(backupPath, data, 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	local := newTestEngine(t)
	if err := local.Initialize([]byte("local-pass")); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	localBefore, err := os.ReadFile(local.Path())
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	// Wrong passphrase: local vault must remain byte-identical.
	if err := local.RecoverFromFile(backupPath, []byte("wrong")); !errors.Is(err, ErrWrongPassphrase) {
		t.Fatalf("RecoverFromFile(wrong) = %v, want ErrWrongPassphrase", err)
	}
	localAfter, err := os.ReadFile(local.Path())
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !bytes.Equal(localBefore, localAfter) {
		t.Fatal("failed recovery must leave the local vault untouched")
	}

	// Foreign file: same guarantee.
	foreignPath := filepath.Join(t.TempDir(), "foreign.bin")
	if err := os.WriteFile(foreignPath, []byte("junk"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := local.RecoverFromFile(foreignPath, passphrase); !errors.Is(err, container.ErrFormat) {
		t.Fatalf("RecoverFromFile(foreign) = %v, want ErrFormat", err)
	}

	if err := local.RecoverFromFile(backupPath, passphrase); err != nil {
		t.Fatalf("RecoverFromFile failed: %v", err)
	}
	collection, err := local.Load(passphrase)
	if err != nil {
		t.Fatalf("Load after recovery failed: %v", err)
	}
	if len(collection.Entries) != 1 || collection.Entries[0].ID != id {
		t.Error("recovered vault must decrypt to the same collection")
	}
}

func TestRecoverPreview(t *testing.T) {
	source := newTestEngine(t)
	passphrase := []byte("pass")
	if err := source.Initialize(passphrase); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	addEntry(t, source, passphrase, "gitlab.com", "u2")

	local := newTestEngine(t)
	if err := local.Initialize(passphrase); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	diff, err := local.RecoverPreview(source.Path(), passphrase)
	if err != nil {
		t.Fatalf("RecoverPreview failed: %v", err)
	}
	if diff == "" {
		t.Error("expected non-empty preview diff")
	}

	if _, err := local.RecoverPreview(source.Path(), []byte("wrong")); !errors.Is(err, ErrWrongPassphrase) {
		t.Errorf("RecoverPreview(wrong) = %v, want ErrWrongPassphrase", err)
	}
}

func TestExportImport(t *testing.T) {
	engine := newTestEngine(t)
	passphrase := []byte("pass")
	if err := engine.Initialize(passphrase); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	addEntry(t, engine, passphrase, "example.com", "alice")

	exported, err := engine.Export(passphrase)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	other := newTestEngine(t)
	if err := other.Initialize(passphrase); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if err := other.Import(exported, passphrase); err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	collection, err := other.Load(passphrase)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(collection.Entries) != 1 || collection.Entries[0].Site != "example.com" {
		t.Error("imported collection must match the exported one")
	}

	if err := other.Import(&Collection{}, passphrase); err == nil {
		t.Error("Import must reject a collection without an entries list")
	}
}

func TestFilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not meaningful on windows")
	}
	engine := newTestEngine(t)
	passphrase := []byte("pass")
	if err := engine.Initialize(passphrase); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	addEntry(t, engine, passphrase, "example.com", "alice")

	info, err := os.Stat(engine.Path())
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if perm := info.Mode().Perm(); perm != FilePermSecure {
		t.Errorf("vault file mode = %o, want %o", perm, FilePermSecure)
	}
}

// addEntry loads, adds one entry and saves, returning the new entry's id.
func addEntry(t *testing.T, engine *Engine, passphrase []byte, site, username string) string {
	t.Helper()
	collection, err := engine.Load(passphrase)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	id, err := collection.Add(site, username, "secret", "", nil)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := engine.Save(collection, passphrase); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	return id
}

func readHeader(t *testing.T, engine *Engine) *container.Header {
	t.Helper()
	data, err := os.ReadFile(engine.Path())
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	hdr, err := container.DecodeHeader(data)
	if err != nil {
		t.Fatalf("DecodeHeader failed: %v", err)
	}
	return hdr
}
