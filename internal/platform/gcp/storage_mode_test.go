package gcp

import (
	"errors"
	"testing"
)

func TestValidateObjectStorageConfig(t *testing.T) {
	cases := []struct {
		name string
		cfg  ObjectStorageConfig
		code ObjectStorageConfigErrorCode
	}{
		{"ok gcs", ObjectStorageConfig{Mode: ObjectStorageModeGCS, Bucket: "b"}, ""},
		{"ok emulator", ObjectStorageConfig{Mode: ObjectStorageModeGCSEmulator, Bucket: "b", EmulatorHost: "http://fake-gcs:4443"}, ""},
		{"bad mode", ObjectStorageConfig{Mode: "s3", Bucket: "b"}, ObjectStorageConfigErrorInvalidMode},
		{"no bucket", ObjectStorageConfig{Mode: ObjectStorageModeGCS}, ObjectStorageConfigErrorMissingBucket},
		{"no emulator host", ObjectStorageConfig{Mode: ObjectStorageModeGCSEmulator, Bucket: "b"}, ObjectStorageConfigErrorMissingEmulatorHost},
		{"relative emulator host", ObjectStorageConfig{Mode: ObjectStorageModeGCSEmulator, Bucket: "b", EmulatorHost: "fake-gcs:4443"}, ObjectStorageConfigErrorInvalidEmulatorHost},
		{"bad public base", ObjectStorageConfig{Mode: ObjectStorageModeGCS, Bucket: "b", PublicBaseURL: "/x"}, ObjectStorageConfigErrorInvalidPublicBase},
	}
	for _, tc := range cases {
		err := ValidateObjectStorageConfig(tc.cfg)
		if tc.code == "" {
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", tc.name, err)
			}
			continue
		}
		var cfgErr *ObjectStorageConfigError
		if !errors.As(err, &cfgErr) {
			t.Fatalf("%s: want ObjectStorageConfigError got=%v", tc.name, err)
		}
		if cfgErr.Code != tc.code {
			t.Fatalf("%s: code want=%q got=%q", tc.name, tc.code, cfgErr.Code)
		}
	}
}

func TestPublicURL(t *testing.T) {
	cases := []struct {
		name string
		cfg  ObjectStorageConfig
		want string
	}{
		{"gcs default", ObjectStorageConfig{Mode: ObjectStorageModeGCS, Bucket: "banners"}, "https://storage.googleapis.com/banners/a/b.png"},
		{"cdn", ObjectStorageConfig{Mode: ObjectStorageModeGCS, Bucket: "banners", CDNDomain: "cdn.example.com"}, "https://cdn.example.com/a/b.png"},
		{"public base", ObjectStorageConfig{Mode: ObjectStorageModeGCS, Bucket: "banners", PublicBaseURL: "http://localhost:9000/"}, "http://localhost:9000/banners/a/b.png"},
		{"emulator", ObjectStorageConfig{Mode: ObjectStorageModeGCSEmulator, Bucket: "banners", EmulatorHost: "http://fake-gcs:4443"}, "http://fake-gcs:4443/storage/v1/b/banners/o/a%2Fb.png?alt=media"},
	}
	for _, tc := range cases {
		bs := &bucketService{cfg: tc.cfg, publicBaseURL: publicBaseURL(tc.cfg)}
		if got := bs.PublicURL("/a/b.png"); got != tc.want {
			t.Fatalf("%s: want=%q got=%q", tc.name, tc.want, got)
		}
	}
}

func TestContentTypeForKey(t *testing.T) {
	if got := ContentTypeForKey("x/banner.PNG?v=1"); got != "image/png" {
		t.Fatalf("png: got=%q", got)
	}
	if got := ContentTypeForKey("x/banner"); got != "application/octet-stream" {
		t.Fatalf("unknown: got=%q", got)
	}
}
