package wavslice

// FormatChunk returns a copy of the parsed fmt chunk, if available.
func (d *Decoder) FormatChunk() *FmtChunk {
	if d == nil || d.FmtChunk == nil {
		return nil
	}

	out := *d.FmtChunk
	out.ExtraData = append([]byte(nil), d.FmtChunk.ExtraData...)

	if d.FmtChunk.Extensible != nil {
		ext := *d.FmtChunk.Extensible
		out.Extensible = &ext
	}

	return &out
}
