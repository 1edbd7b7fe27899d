// Package fsb5 reads FMOD Sound Bank version 5 (FSB5) files and converts
// their streams to common audio containers.
//
// A bank starts with a fixed header, one header per stream, an optional
// name table and the concatenated stream data. NewBank parses everything
// but the stream data, which is then read in file order:
//
//   - ReadStreams hands out each stream with a reader bounded to its data
//   - NextStream and Streams read stream data into memory
//
// Parsing never seeks, so a bank can be read from a pipe or a network
// connection.
//
// PCM streams are written as WAVE files with Stream.WriteWAV, carrying the
// loop region in a smpl chunk and the stream name in a LIST/INFO chunk, or
// as AIFF files with Stream.WriteAIFF. Vorbis streams are rebuilt as Ogg
// Vorbis files with WriteOgg. FSB strips the Vorbis setup header and only
// stores its CRC-32, so the header must be supplied by a VorbisSetupSource
// such as a VorbisSetupTable or a VorbisSetupLibrary.
//
// Parse failures are reported as a HeaderError. Its chain may hold a
// StreamError, ChunkError or NameError, and failures of the input itself end
// in a ReadError holding the byte offset.
package fsb5
