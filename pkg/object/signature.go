package object

// TagSigningPayload returns the canonical bytes that are signed for an
// annotated tag. The payload intentionally excludes the signature header
// itself, so it is stable whether computed before signing or recomputed
// from the stored object during verification.
func TagSigningPayload(t *Tag) []byte {
	if t == nil {
		return nil
	}
	return t.kv.Without("signature").Serialize()
}
