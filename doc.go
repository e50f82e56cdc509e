// Package wavslice turns mono 16-bit PCM wav recordings into headerless raw
// PCM files for the lofi sampler and for dataset preparation.
//
// Convert writes two kinds of output into Request.OutDir:
//
//   - source.raw holds every frame of the input, in order.
//   - <Prefix>1.raw … <Prefix>N.raw hold N equal, contiguous slices of
//     Frames/N frames each (rounded down). Remainder frames at the end of the
//     input only appear in source.raw.
//
// Inputs must be mono PCM with 2-byte samples sampled at 22050 Hz; anything
// else fails with an *UnsupportedFormatError before a single file is written.
//
// The Decoder gives frame level access to any PCM wav container (NumFrames,
// ReadFrames, SetPos, Rewind) and the Encoder writes integer PCM wav files,
// which Convert uses for optional preview copies.
package wavslice
