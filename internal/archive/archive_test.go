package archive

import (
	"reflect"
	"testing"
)

func TestDetectFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		want    Format
		wantErr bool
	}{
		{"backup.zip", Zip, false},
		{"Backup.ZIP", Zip, false},
		{"site.tar.gz", TarGz, false},
		{"site.tgz", TarGz, false},
		{"logs.tar.xz", TarXz, false},
		{"logs.txz", TarXz, false},
		{"old.tar.bz2", TarBz2, false},
		{"plain.tar", Tar, false},
		{"document.pdf", "", true},
		{"noext", "", true},
	}

	for _, tt := range tests {
		got, err := DetectFormat(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("DetectFormat(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("DetectFormat(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestPackArgs(t *testing.T) {
	t.Parallel()

	t.Run("zip", func(t *testing.T) {
		t.Parallel()
		bin, args := PackArgs(Zip, "out.zip", []string{"src", "file.txt"})
		if bin != "zip" {
			t.Errorf("bin = %q, want zip", bin)
		}
		want := []string{"-r", "-q", "out.zip", "src", "file.txt"}
		if !reflect.DeepEqual(args, want) {
			t.Errorf("args = %v, want %v", args, want)
		}
	})

	t.Run("tar.gz", func(t *testing.T) {
		t.Parallel()
		bin, args := PackArgs(TarGz, "out.tar.gz", []string{"src"})
		if bin != "tar" {
			t.Errorf("bin = %q, want tar", bin)
		}
		want := []string{"-czf", "out.tar.gz", "src"}
		if !reflect.DeepEqual(args, want) {
			t.Errorf("args = %v, want %v", args, want)
		}
	})

	t.Run("tar.xz", func(t *testing.T) {
		t.Parallel()
		_, args := PackArgs(TarXz, "out.tar.xz", []string{"src"})
		if args[0] != "-cJf" {
			t.Errorf("args[0] = %q, want -cJf", args[0])
		}
	})

	t.Run("plain tar", func(t *testing.T) {
		t.Parallel()
		_, args := PackArgs(Tar, "out.tar", []string{"src"})
		if args[0] != "-cf" {
			t.Errorf("args[0] = %q, want -cf", args[0])
		}
	})
}

func TestUnpackArgs(t *testing.T) {
	t.Parallel()

	bin, args := UnpackArgs(Zip, "a.zip", "dest")
	if bin != "unzip" {
		t.Errorf("bin = %q, want unzip", bin)
	}
	if want := []string{"-q", "a.zip", "-d", "dest"}; !reflect.DeepEqual(args, want) {
		t.Errorf("args = %v, want %v", args, want)
	}

	bin, args = UnpackArgs(TarGz, "a.tar.gz", "dest")
	if bin != "tar" {
		t.Errorf("bin = %q, want tar", bin)
	}
	if want := []string{"-xzf", "a.tar.gz", "-C", "dest"}; !reflect.DeepEqual(args, want) {
		t.Errorf("args = %v, want %v", args, want)
	}
}

func TestListArgs(t *testing.T) {
	t.Parallel()

	bin, args := ListArgs(Zip, "a.zip")
	if bin != "unzip" || args[0] != "-l" {
		t.Errorf("ListArgs(zip) = %q %v, want unzip -l", bin, args)
	}

	bin, args = ListArgs(TarBz2, "a.tar.bz2")
	if bin != "tar" || args[0] != "-tjf" {
		t.Errorf("ListArgs(tar.bz2) = %q %v, want tar -tjf", bin, args)
	}
}
