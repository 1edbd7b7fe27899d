package fsb5

// wavChunkEncoder produces an optional chunk written between the fmt and
// data chunks. ok is false when the stream has nothing to store.
type wavChunkEncoder interface {
	Encode(e *wavEncoder) (chunk rawChunk, ok bool)
}

// wavChunkRegistry holds the optional chunk encoders in write order.
type wavChunkRegistry struct {
	encoders []wavChunkEncoder
}

func newDefaultWavChunkRegistry() *wavChunkRegistry {
	return &wavChunkRegistry{
		encoders: []wavChunkEncoder{
			smplChunkEncoder{},
			listChunkEncoder{},
		},
	}
}

func (r *wavChunkRegistry) encode(e *wavEncoder) []rawChunk {
	if r == nil {
		return nil
	}

	var chunks []rawChunk

	for _, enc := range r.encoders {
		if chunk, ok := enc.Encode(e); ok {
			chunks = append(chunks, chunk)
		}
	}

	return chunks
}
