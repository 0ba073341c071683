package util

import (
	"bytes"
	"encoding/base64"
	"testing"
)

func TestDecodeBase64MaybeDataURL(t *testing.T) {
	payload := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x01}
	plain := base64.StdEncoding.EncodeToString(payload)

	got, hint, err := DecodeBase64MaybeDataURL(plain)
	if err != nil || !bytes.Equal(got, payload) || hint != "" {
		t.Errorf("plain: %v %q %v", got, hint, err)
	}

	got, hint, err = DecodeBase64MaybeDataURL("data:image/jpeg;base64," + plain)
	if err != nil || !bytes.Equal(got, payload) {
		t.Errorf("data url: %v %v", got, err)
	}
	if hint != "image/jpeg" {
		t.Errorf("hint: %q", hint)
	}

	urlSafe := base64.URLEncoding.EncodeToString([]byte{0xFB, 0xFF, 0xFE})
	got, _, err = DecodeBase64MaybeDataURL(urlSafe)
	if err != nil || !bytes.Equal(got, []byte{0xFB, 0xFF, 0xFE}) {
		t.Errorf("url-safe: %v %v", got, err)
	}

	if _, _, err := DecodeBase64MaybeDataURL("not base64!!"); err == nil {
		t.Error("garbage accepted")
	}
}

func TestSniffImageMIME(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0}, "image/jpeg"},
		{"png", []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0x00}, "image/png"},
		{"webp", append([]byte("RIFF"), append([]byte{0, 0, 0, 0}, []byte("WEBP")...)...), "image/webp"},
		{"unknown", []byte("hello"), ""},
		{"empty", nil, ""},
	}
	for _, tt := range tests {
		if got := SniffImageMIME(tt.data); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestPickMIME(t *testing.T) {
	jpeg := []byte{0xFF, 0xD8, 0xFF}
	if got := PickMIME("image/png", "image/webp", jpeg); got != "image/png" {
		t.Errorf("explicit wins: %q", got)
	}
	if got := PickMIME("", "image/webp", jpeg); got != "image/webp" {
		t.Errorf("hint second: %q", got)
	}
	if got := PickMIME("", "", jpeg); got != "image/jpeg" {
		t.Errorf("sniffed: %q", got)
	}
	if got := PickMIME("", "", nil); got != "image/jpeg" {
		t.Errorf("fallback: %q", got)
	}
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"{\"a\":1}", "{\"a\":1}"},
		{"```json\n{\"a\":1}\n```", "{\"a\":1}"},
		{"```\n{\"a\":1}\n```", "{\"a\":1}"},
		{"  {\"a\":1}  ", "{\"a\":1}"},
	}
	for _, tt := range tests {
		if got := StripCodeFences(tt.in); got != tt.want {
			t.Errorf("StripCodeFences(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMakeDataURL(t *testing.T) {
	if got := MakeDataURL("image/webp", "QUJD"); got != "data:image/webp;base64,QUJD" {
		t.Errorf("got %q", got)
	}
}
