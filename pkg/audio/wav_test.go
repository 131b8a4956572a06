package audio

import (
	"bytes"
	"encoding/binary"
	"testing"
	"time"
)

func TestEncodeWAV_Header(t *testing.T) {
	pcm := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}
	got := EncodeWAV(pcm)

	want := []byte{
		'R', 'I', 'F', 'F',
		42, 0, 0, 0, // 36 + 6
		'W', 'A', 'V', 'E',
		'f', 'm', 't', ' ',
		16, 0, 0, 0,
		1, 0, // PCM
		1, 0, // mono
		0xC0, 0x5D, 0, 0, // 24000
		0x80, 0xBB, 0, 0, // 48000
		2, 0,
		16, 0,
		'd', 'a', 't', 'a',
		6, 0, 0, 0,
		0x01, 0x02, 0x03, 0x04, 0x05, 0x06,
	}

	if !bytes.Equal(got, want) {
		t.Errorf("WAVのバイト列が一致しません\n期待: % x\n実際: % x", want, got)
	}
}

func TestEncodeWAV_Size(t *testing.T) {
	for _, n := range []int{0, 1, 2, 480, 48000} {
		pcm := make([]byte, n)
		for i := range pcm {
			pcm[i] = byte(i)
		}
		wav := EncodeWAV(pcm)
		if len(wav) != HeaderSize+n {
			t.Errorf("n=%d: 期待値 %d バイト, 実際の値 %d バイト", n, HeaderSize+n, len(wav))
		}
		if !bytes.Equal(wav[HeaderSize:], pcm) {
			t.Errorf("n=%d: サンプルがそのままコピーされていません", n)
		}
		if got := binary.LittleEndian.Uint32(wav[4:8]); got != uint32(36+n) {
			t.Errorf("n=%d: ChunkSize が違います: %d", n, got)
		}
	}
}

func TestEncodeWAV_Deterministic(t *testing.T) {
	pcm := []byte("some raw pcm bytes!!")
	if !bytes.Equal(EncodeWAV(pcm), EncodeWAV(pcm)) {
		t.Error("同じ入力から異なる出力が生成されました")
	}
}

func TestParseHeader_RoundTrip(t *testing.T) {
	pcm := make([]byte, 1234)
	h, err := ParseHeader(EncodeWAV(pcm))
	if err != nil {
		t.Fatalf("ヘッダの解析に失敗しました: %v", err)
	}

	if h.DataSize != 1234 || h.ChunkSize != 36+1234 {
		t.Errorf("サイズが復元できていません: %+v", h)
	}
	if h.SampleRate != SampleRate || h.NumChannels != NumChannels || h.BitsPerSample != BitsPerSample {
		t.Errorf("フォーマット定数が復元できていません: %+v", h)
	}
	if h.AudioFormat != 1 || h.ByteRate != 48000 || h.BlockAlign != 2 {
		t.Errorf("派生値が違います: %+v", h)
	}
}

func TestParseHeader_Invalid(t *testing.T) {
	t.Run("短すぎる入力", func(t *testing.T) {
		if _, err := ParseHeader(make([]byte, 10)); err == nil {
			t.Error("エラーが発生しませんでした")
		}
	})
	t.Run("RIFF以外", func(t *testing.T) {
		wav := EncodeWAV(nil)
		copy(wav[0:4], "RIFX")
		if _, err := ParseHeader(wav); err == nil {
			t.Error("エラーが発生しませんでした")
		}
	})
}

func TestDuration(t *testing.T) {
	if got := Duration(48000); got != time.Second {
		t.Errorf("期待値 1s, 実際の値 %v", got)
	}
}
