package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"time"
)

// 音声合成の出力形式に合わせた固定値なのだ。交渉はしません。
const (
	SampleRate    = 24000
	NumChannels   = 1
	BitsPerSample = 16

	HeaderSize = 44
	MIMEType   = "audio/wav"

	formatPCM    = 1
	fmtChunkSize = 16
)

// Header は WAV ヘッダから読み取った値です。
type Header struct {
	ChunkSize     uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	DataSize      uint32
}

// EncodeWAV はリトルエンディアン 16bit モノラルの生 PCM を、44 バイトの標準ヘッダ付き WAV にします。
// サンプルはそのままコピーされるのだ。
func EncodeWAV(pcm []byte) []byte {
	const (
		blockAlign = NumChannels * BitsPerSample / 8
		byteRate   = SampleRate * blockAlign
	)
	dataSize := uint32(len(pcm))

	buf := make([]byte, HeaderSize+len(pcm))
	le := binary.LittleEndian

	copy(buf[0:4], "RIFF")
	le.PutUint32(buf[4:8], 36+dataSize)
	copy(buf[8:12], "WAVE")

	copy(buf[12:16], "fmt ")
	le.PutUint32(buf[16:20], fmtChunkSize)
	le.PutUint16(buf[20:22], formatPCM)
	le.PutUint16(buf[22:24], NumChannels)
	le.PutUint32(buf[24:28], SampleRate)
	le.PutUint32(buf[28:32], byteRate)
	le.PutUint16(buf[32:34], blockAlign)
	le.PutUint16(buf[34:36], BitsPerSample)

	copy(buf[36:40], "data")
	le.PutUint32(buf[40:44], dataSize)

	copy(buf[HeaderSize:], pcm)
	return buf
}

// ParseHeader は EncodeWAV が書いた形式の 44 バイトヘッダを読み戻します。
func ParseHeader(wav []byte) (Header, error) {
	if len(wav) < HeaderSize {
		return Header{}, fmt.Errorf("WAVヘッダが短すぎます: %d バイト", len(wav))
	}
	if !bytes.Equal(wav[0:4], []byte("RIFF")) || !bytes.Equal(wav[8:12], []byte("WAVE")) {
		return Header{}, fmt.Errorf("RIFF/WAVE 形式ではありません")
	}
	if !bytes.Equal(wav[12:16], []byte("fmt ")) || !bytes.Equal(wav[36:40], []byte("data")) {
		return Header{}, fmt.Errorf("想定外のチャンク構成です")
	}

	le := binary.LittleEndian
	return Header{
		ChunkSize:     le.Uint32(wav[4:8]),
		AudioFormat:   le.Uint16(wav[20:22]),
		NumChannels:   le.Uint16(wav[22:24]),
		SampleRate:    le.Uint32(wav[24:28]),
		ByteRate:      le.Uint32(wav[28:32]),
		BlockAlign:    le.Uint16(wav[32:34]),
		BitsPerSample: le.Uint16(wav[34:36]),
		DataSize:      le.Uint32(wav[40:44]),
	}, nil
}

// Duration は PCM のバイト数から再生時間を求めます。ログ用なのだ。
func Duration(pcmBytes int) time.Duration {
	const bytesPerSecond = SampleRate * NumChannels * BitsPerSample / 8
	return time.Duration(pcmBytes) * time.Second / bytesPerSecond
}
