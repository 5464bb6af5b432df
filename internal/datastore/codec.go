package datastore

import (
	"encoding/json"

	"github.com/aleister1102/visualreg/internal/common/errorwrapper"
	"github.com/klauspost/compress/zstd"
)

// collectionVersion is stamped into every persisted collection envelope.
const collectionVersion = "1"

// collectionEnvelope is the versioned wrapper every collection is persisted
// under. Records stay raw so decoding tolerates unknown record shapes.
type collectionEnvelope struct {
	Version string          `json:"version"`
	Records json.RawMessage `json:"records"`
}

// collectionCodec compresses versioned JSON collections with zstd.
type collectionCodec struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// newCollectionCodec creates a codec with the given zstd compression level
func newCollectionCodec(compressionLevel int) (*collectionCodec, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(compressionLevel)))
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to create zstd encoder")
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to create zstd decoder")
	}

	return &collectionCodec{encoder: encoder, decoder: decoder}, nil
}

// encode marshals records into a versioned envelope and compresses it
func (cc *collectionCodec) encode(records any) ([]byte, error) {
	rawRecords, err := json.Marshal(records)
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to marshal collection records")
	}

	envelope := collectionEnvelope{
		Version: collectionVersion,
		Records: rawRecords,
	}

	payload, err := json.Marshal(envelope)
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to marshal collection envelope")
	}

	return cc.encoder.EncodeAll(payload, nil), nil
}

// decode decompresses a payload and unmarshals its records. Any failure is
// reported as ErrCorruptData so callers can degrade to an empty collection.
func (cc *collectionCodec) decode(data []byte, records any) error {
	payload, err := cc.decoder.DecodeAll(data, nil)
	if err != nil {
		return errorwrapper.WrapError(errorwrapper.ErrCorruptData, err.Error())
	}

	var envelope collectionEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return errorwrapper.WrapError(errorwrapper.ErrCorruptData, err.Error())
	}

	if len(envelope.Records) == 0 {
		return nil
	}

	if err := json.Unmarshal(envelope.Records, records); err != nil {
		return errorwrapper.WrapError(errorwrapper.ErrCorruptData, err.Error())
	}

	return nil
}
