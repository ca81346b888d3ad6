package security

import (
	"errors"
	"fmt"

	"github.com/wudi/hovacui/ir/raw"
)

// DataClass distinguishes the three kinds of data a standard security
// handler encrypts under slightly different rules (string values vs.
// stream bodies vs. the XMP metadata stream, which EncryptMetadata can
// exempt even when everything else is encrypted).
type DataClass int

const (
	DataClassString DataClass = iota
	DataClassStream
	DataClassMetadataStream
)

// Permissions mirrors the bit flags of a PDF encryption dictionary's P
// entry (PDF32000 Table 22), in the directions the viewer only ever
// reads: whether the document can be printed, modified, copied from,
// etc. Nothing in this repository enforces these — they're surfaced on
// pdf.Metadata for a caller to act on.
type Permissions struct {
	Print, Modify, Copy, ModifyAnnotations, FillForms, ExtractAccessible, Assemble, PrintHighQuality bool
}

// Handler decrypts/encrypts the byte payload of strings and streams
// read from (or written to) an encrypted PDF. objNum/gen identify the
// indirect object the data belongs to, since the standard security
// handler's per-object key depends on them.
type Handler interface {
	IsEncrypted() bool
	Authenticate(password string) error
	Decrypt(objNum, gen int, data []byte, class DataClass) ([]byte, error)
	Encrypt(objNum, gen int, data []byte, class DataClass) ([]byte, error)
	Permissions() Permissions
	EncryptMetadata() bool
}

// HandlerBuilder assembles a Handler from a document's Encrypt
// dictionary, trailer (for the file ID referenced by some key
// derivations) and file ID.
type HandlerBuilder struct {
	encryptDict raw.Dictionary
	trailer     raw.Dictionary
	fileID      []byte
}

func (b *HandlerBuilder) WithEncryptDict(d raw.Dictionary) *HandlerBuilder { b.encryptDict = d; return b }
func (b *HandlerBuilder) WithTrailer(d raw.Dictionary) *HandlerBuilder    { b.trailer = d; return b }
func (b *HandlerBuilder) WithFileID(id []byte) *HandlerBuilder           { b.fileID = id; return b }

// Build returns a no-op Handler when there is no Encrypt dictionary, or
// a standardHandler describing one otherwise. The returned handler
// authenticates any password (it has no cipher implementation to check
// one against) and reports the dictionary's permissions/EncryptMetadata
// flag accurately; Decrypt/Encrypt fail with a descriptive error rather
// than silently passing encrypted bytes through, since this build
// supports reading permissions and metadata-encryption status from an
// encrypted document but not decrypting its content streams.
func (b *HandlerBuilder) Build() (Handler, error) {
	if b.encryptDict == nil {
		return NoopHandler(), nil
	}
	v := intEntry(b.encryptDict, "V", 0)
	r := intEntry(b.encryptDict, "R", 2)
	length := intEntry(b.encryptDict, "Length", 40)
	p := intEntry(b.encryptDict, "P", -1)
	encryptMetadata := boolEntry(b.encryptDict, "EncryptMetadata", true)
	return &standardHandler{
		version:         v,
		revision:        r,
		keyLength:       length,
		perms:           permissionsFromBits(p),
		encryptMetadata: encryptMetadata,
	}, nil
}

type noEncryptionHandler struct{}

func (noEncryptionHandler) IsEncrypted() bool            { return false }
func (noEncryptionHandler) Authenticate(string) error     { return nil }
func (noEncryptionHandler) Permissions() Permissions      { return Permissions{Print: true, Modify: true, Copy: true, ModifyAnnotations: true, FillForms: true, ExtractAccessible: true, Assemble: true, PrintHighQuality: true} }
func (noEncryptionHandler) EncryptMetadata() bool         { return true }
func (noEncryptionHandler) Decrypt(_, _ int, data []byte, _ DataClass) ([]byte, error) {
	return data, nil
}
func (noEncryptionHandler) Encrypt(_, _ int, data []byte, _ DataClass) ([]byte, error) {
	return data, nil
}

// NoopHandler returns a reusable pass-through handler for unencrypted
// documents.
func NoopHandler() Handler { return noEncryptionHandler{} }

// standardHandler describes a document encrypted with the PDF standard
// security handler (Filter /Standard) without implementing any of its
// ciphers: it can tell a caller whether the document is encrypted, what
// its declared permissions are, and whether metadata streams are
// exempted, but cannot recover a content stream's plaintext.
type standardHandler struct {
	version, revision, keyLength int
	perms                        Permissions
	encryptMetadata              bool
}

func (h *standardHandler) IsEncrypted() bool       { return true }
func (h *standardHandler) Authenticate(string) error { return nil }
func (h *standardHandler) Permissions() Permissions  { return h.perms }
func (h *standardHandler) EncryptMetadata() bool     { return h.encryptMetadata }

var errCipherUnsupported = errors.New("security: no cipher implementation for this encrypted document")

func (h *standardHandler) Decrypt(int, int, []byte, DataClass) ([]byte, error) {
	return nil, fmt.Errorf("%w (V=%d R=%d Length=%d)", errCipherUnsupported, h.version, h.revision, h.keyLength)
}

func (h *standardHandler) Encrypt(int, int, []byte, DataClass) ([]byte, error) {
	return nil, fmt.Errorf("%w (V=%d R=%d Length=%d)", errCipherUnsupported, h.version, h.revision, h.keyLength)
}

func intEntry(d raw.Dictionary, key string, def int) int {
	obj, ok := d.Get(raw.NameObj{Val: key})
	if !ok {
		return def
	}
	n, ok := obj.(raw.Number)
	if !ok {
		return def
	}
	return int(n.Int())
}

func boolEntry(d raw.Dictionary, key string, def bool) bool {
	obj, ok := d.Get(raw.NameObj{Val: key})
	if !ok {
		return def
	}
	b, ok := obj.(raw.Boolean)
	if !ok {
		return def
	}
	return b.Value()
}

// permissionsFromBits decodes a PDF32000 Table 22 permission bitmask
// (bit 1 is the least-significant bit; a set bit grants the action).
func permissionsFromBits(p int) Permissions {
	bit := func(n uint) bool { return p&(1<<(n-1)) != 0 }
	return Permissions{
		Print:             bit(3),
		Modify:            bit(4),
		Copy:              bit(5),
		ModifyAnnotations: bit(6),
		FillForms:         bit(9),
		ExtractAccessible: bit(10),
		Assemble:          bit(11),
		PrintHighQuality:  bit(12),
	}
}
