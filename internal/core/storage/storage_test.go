package storage

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func TestLocalProvider(t *testing.T) {
	ctx := context.Background()
	p, err := NewLocalProvider(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	obj, err := p.Put(ctx, "invoices/2024/03/INV-202403-0001.pdf", []byte("%PDF-1.3"), "")
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if obj.Size != 8 || obj.ContentType != "application/pdf" {
		t.Fatalf("unexpected object %+v", obj)
	}

	data, err := p.Get(ctx, obj.Key)
	if err != nil || !bytes.Equal(data, []byte("%PDF-1.3")) {
		t.Fatalf("get: %q %v", data, err)
	}

	if _, err := p.Put(ctx, obj.Key, []byte("%PDF-1.4"), ""); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	data, _ = p.Get(ctx, obj.Key)
	if string(data) != "%PDF-1.4" {
		t.Fatalf("overwrite not visible: %q", data)
	}

	if err := p.Delete(ctx, obj.Key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := p.Get(ctx, obj.Key); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := p.Delete(ctx, obj.Key); err != nil {
		t.Fatalf("deleting a missing object should succeed: %v", err)
	}
}

func TestCleanKey(t *testing.T) {
	cases := []struct {
		in, want string
		ok       bool
	}{
		{"invoices/a.pdf", "invoices/a.pdf", true},
		{"/invoices/a.pdf", "invoices/a.pdf", true},
		{`invoices\a.pdf`, "invoices/a.pdf", true},
		{"../etc/passwd", "", false},
		{"invoices/../../x", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := CleanKey(tc.in)
		if (err == nil) != tc.ok || got != tc.want {
			t.Fatalf("CleanKey(%q) = %q, %v", tc.in, got, err)
		}
	}
}

func TestNew(t *testing.T) {
	ctx := context.Background()
	if p, err := New(ctx, Config{}); p != nil || err != nil {
		t.Fatalf("disabled storage: %v %v", p, err)
	}
	p, err := New(ctx, Config{Provider: "local", LocalPath: t.TempDir()})
	if err != nil || p.Name() != "Local" {
		t.Fatalf("local: %v %v", p, err)
	}
	if _, err := New(ctx, Config{Provider: "s3"}); err == nil {
		t.Fatal("s3 without bucket should fail")
	}
	if _, err := New(ctx, Config{Provider: "ftp"}); err == nil {
		t.Fatal("unknown provider should fail")
	}
}
