package validation_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/validation"
)

func TestValidateFile_ExecutableRejectedForTypeAndExtension(t *testing.T) {
	got := validation.ValidateFile(&validation.FileInput{
		Name:     "payload.exe",
		Size:     1024,
		MIMEType: "application/x-msdownload",
	})

	want := []string{
		`File type "application/x-msdownload" is not allowed`,
		`File extension ".exe" does not match its type`,
	}
	if diff := cmp.Diff(want, got.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if got.IsValid {
		t.Fatalf("expected executable upload to be rejected")
	}
}

func TestValidateFile_Cases(t *testing.T) {
	cases := []struct {
		name string
		file *validation.FileInput
		want []string
	}{
		{
			name: "valid jpeg",
			file: &validation.FileInput{Name: "photo.JPEG", Size: 2048, MIMEType: "image/jpeg"},
			want: []string{},
		},
		{
			name: "nil",
			file: nil,
			want: []string{"File is required"},
		},
		{
			name: "extension mismatch",
			file: &validation.FileInput{Name: "photo.png", Size: 10, MIMEType: "image/jpeg"},
			want: []string{`File extension ".png" does not match its type`},
		},
		{
			name: "too large",
			file: &validation.FileInput{Name: "doc.pdf", Size: validation.MaxFileSize + 1, MIMEType: "application/pdf"},
			want: []string{"File size cannot exceed 5 MB"},
		},
		{
			name: "path separator",
			file: &validation.FileInput{Name: "../etc/passwd.txt", Size: 10, MIMEType: "text/plain"},
			want: []string{"File name contains invalid characters"},
		},
		{
			name: "control character",
			file: &validation.FileInput{Name: "notes\x00.txt", Size: 10, MIMEType: "text/plain"},
			want: []string{"File name contains invalid characters"},
		},
		{
			name: "long name",
			file: &validation.FileInput{Name: strings.Repeat("a", 252) + ".txt", Size: 10, MIMEType: "text/plain"},
			want: []string{"File name cannot exceed 255 characters"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := validation.ValidateFile(tc.file)
			if diff := cmp.Diff(tc.want, got.Errors); diff != "" {
				t.Fatalf("errors mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAllowedExtensionsReturnsCopy(t *testing.T) {
	exts := validation.AllowedExtensions("image/jpeg")
	exts[0] = ".exe"
	if got := validation.AllowedExtensions("image/jpeg"); got[0] != ".jpg" {
		t.Fatalf("mutating returned slice leaked into table: %v", got)
	}
	if got := validation.AllowedExtensions("application/x-msdownload"); got != nil {
		t.Fatalf("expected nil for unknown type, got %v", got)
	}
}
