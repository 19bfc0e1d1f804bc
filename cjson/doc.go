// Package cjson encodes JSON values as canonical JSON: exactly one byte
// sequence per logical value, suitable for hashing, signing and content
// addressing.
//
// Canonical form:
//   - object members sorted by the bytes of their encoded key, at every depth
//   - integers only; floating point values and float-shaped number strings
//     are rejected, never rounded
//   - every string normalized to Unicode NFC
//   - only '"' and '\' escaped; control characters and '/' are written as
//     literal bytes
//   - no insignificant whitespace
//
// Encoding is event driven. A Serializer walks a value tree and calls a
// Formatter once per primitive event. CanonicalFormatter buffers each open
// object's members and replays them sorted when the object closes;
// CompactFormatter writes plain compact JSON and is interchangeable with it.
//
// Raw fragments (RawMessage) are never copied through. They are parsed and
// re-driven through a fresh CanonicalFormatter, so spliced content is
// normalized and sorted like everything else.
//
// Duplicate object keys keep the last member by default. Set
// EncodeOptions.RejectDuplicateKeys to make them an error instead. Keys are
// compared after NFC normalization and members are applied in source order,
// so of two NFC-equal keys the one written later in the input wins.
//
// Invalid UTF-8 is always an error, including inside raw fragments, where a
// \u escape naming an unpaired surrogate is rejected as well.
package cjson
