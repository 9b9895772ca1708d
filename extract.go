package rarextract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/javi11/rarextract/internal/aesreader"
	"github.com/javi11/rarextract/internal/block"
	"github.com/javi11/rarextract/internal/rarerr"
	"github.com/javi11/rarextract/internal/sink"
	"github.com/javi11/rarextract/internal/streamio"
	"github.com/javi11/rarextract/internal/timeconv"
	"github.com/javi11/rarextract/internal/volume"
)

// quickOpenName is the reserved member name RAR5 uses for its quick-open
// index; it is recorded on the Archive separately and never extracted.
const quickOpenName = "QO"

const pumpBufferSize = 64 * 1024

// Parse reads an archive's headers only; member data areas are skipped by
// forward-seek (read and discarded), never written out.
func Parse(ctx context.Context, path string, opts ...Option) (*Archive, error) {
	return ParseFS(ctx, defaultFS, path, opts...)
}

// ParseFS is Parse against a caller-supplied afero.Fs.
func ParseFS(ctx context.Context, fs afero.Fs, path string, opts ...Option) (*Archive, error) {
	o := options{fs: fs, path: path}
	applyOptions(&o, opts)
	return run(ctx, o)
}

// ExtractAll parses path and extracts every non-directory member into
// destination, using password to decrypt any encrypted member.
func ExtractAll(ctx context.Context, path, destination, password string, opts ...Option) (*Archive, error) {
	return ExtractAllFS(ctx, defaultFS, path, destination, password, opts...)
}

// ExtractAllFS is ExtractAll against a caller-supplied afero.Fs.
func ExtractAllFS(ctx context.Context, fs afero.Fs, path, destination, password string, opts ...Option) (*Archive, error) {
	o := options{fs: fs, path: path, destination: destination, password: password, extract: true}
	applyOptions(&o, opts)
	return run(ctx, o)
}

// ExtractOne is like ExtractAll but extracts only the member named name.
func ExtractOne(ctx context.Context, path, destination, name, password string, opts ...Option) (*Archive, error) {
	return ExtractOneFS(ctx, defaultFS, path, destination, name, password, opts...)
}

// ExtractOneFS is ExtractOne against a caller-supplied afero.Fs.
func ExtractOneFS(ctx context.Context, fs afero.Fs, path, destination, name, password string, opts ...Option) (*Archive, error) {
	o := options{fs: fs, path: path, destination: destination, password: password, extract: true, target: name}
	applyOptions(&o, opts)
	return run(ctx, o)
}

type options struct {
	fs          afero.Fs
	path        string
	destination string
	password    string
	extract     bool
	// target, when non-empty, restricts extraction to the single member of
	// that name; all other members are still recorded on the Archive but
	// their data is skipped rather than written out.
	target string
	logger Logger
}

func run(ctx context.Context, opts options) (*Archive, error) {
	f, err := opts.fs.Open(opts.path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", opts.path, err)
	}
	defer func() { _ = f.Close() }()

	sr := streamio.New(f)

	_, sig, err := streamio.RunParser(sr, block.ParseSignature)
	if err != nil {
		return nil, err
	}
	if sig == block.SignatureRAR4 {
		return nil, rarerr.ErrUnsupportedRAR4
	}
	opts.logger.WithFields(logrus.Fields{
		"path":      opts.path,
		"blockType": "signature",
	}).Debug("RAR5 signature recognized")

	if _, err := streamio.RunParser(sr, block.ParseArchiveBlock); err != nil {
		return nil, err
	}

	archive := &Archive{Path: opts.path}

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		fb, ferr := streamio.RunParser(sr, block.ParseFileBlock)
		if ferr != nil {
			if errors.Is(ferr, rarerr.ErrWrongType) {
				rest, h, herr := block.ParseCommonHeader(sr.Peek())
				if herr == nil && h.Type == block.TypeUnknown {
					sr.Consume(len(sr.Peek()) - len(rest))
					if err := sr.ForwardSeek(h.BodyRemaining + int64(h.DataAreaSize)); err != nil {
						return nil, err
					}
					opts.logger.WithFields(logrus.Fields{
						"path":      opts.path,
						"blockType": h.RawType,
						"offset":    sr.Offset(),
					}).Warn("skipping unknown block")
					continue
				}
				break
			}
			return nil, ferr
		}
		opts.logger.WithFields(logrus.Fields{
			"path":      opts.path,
			"blockType": "file",
			"offset":    sr.Offset(),
			"size":      fb.Header.DataAreaSize,
		}).Debug("file block encountered")

		if string(fb.Name) == quickOpenName {
			if err := sr.ForwardSeek(int64(fb.Header.DataAreaSize)); err != nil {
				return nil, err
			}
			qo := toFileHeader(fb)
			archive.QuickOpen = &qo
			opts.logger.WithFields(logrus.Fields{
				"path":      opts.path,
				"blockType": "quick-open",
			}).Warn("quick-open index encountered, stopping scan")
			break
		}

		fh := toFileHeader(fb)

		if fh.IsDirectory {
			if err := sr.ForwardSeek(int64(fb.Header.DataAreaSize)); err != nil {
				return nil, err
			}
			if opts.extract && opts.target == "" {
				if err := sink.EnsureDir(opts.fs, filepath.Join(opts.destination, fh.Name)); err != nil {
					return nil, err
				}
			}
			archive.Files = append(archive.Files, fh)
			continue
		}

		wantExtract := opts.extract && (opts.target == "" || opts.target == fh.Name)
		if !wantExtract {
			if err := sr.ForwardSeek(int64(fb.Header.DataAreaSize)); err != nil {
				return nil, err
			}
			archive.Files = append(archive.Files, fh)
			continue
		}

		if fb.Compression.Method != block.MethodSave {
			return nil, fmt.Errorf("%w: %s uses method %v", rarerr.ErrUnsupportedCompression, fh.Name, fb.Compression.Method)
		}

		if err := extractMember(opts, sr, fb, fh); err != nil {
			return nil, err
		}

		archive.Files = append(archive.Files, fh)
	}

	if _, err := streamio.RunParser(sr, block.ParseEndBlock); err != nil {
		return nil, err
	}

	return archive, nil
}

func extractMember(opts options, sr *streamio.Reader, fb block.FileBlock, fh FileHeader) error {
	bounded := sr.BoundedReader(int64(fb.Header.DataAreaSize))

	var data io.Reader = bounded
	if fb.Header.Flags.DataContinuesToNext {
		opts.logger.WithFields(logrus.Fields{
			"path":      opts.path,
			"blockType": "volume-continuation",
			"size":      fb.Header.DataAreaSize,
		}).Debug("engaging multi-volume reassembler")
		chain := volume.New(opts.fs, opts.path, bounded, fb.Header.DataAreaSize, true, fb.Name, opts.logger)
		defer func() { _ = chain.Close() }()
		data = chain
	}

	if fb.Extra.FileEncryption != nil {
		dec, err := aesreader.NewReader(data, opts.password, *fb.Extra.FileEncryption)
		if err != nil {
			return err
		}
		data = dec
	}

	destPath := filepath.Join(opts.destination, fh.Name)
	out, err := sink.CreateFile(opts.fs, destPath, uint32(fh.Attributes))
	if err != nil {
		return err
	}

	buf := make([]byte, pumpBufferSize)
	_, copyErr := io.CopyBuffer(sink.NewWriter(out, fh.UnpackedSize), data, buf)
	closeErr := out.Close()

	if copyErr != nil && !errors.Is(copyErr, rarerr.ErrCapacityReached) {
		return copyErr
	}
	if closeErr != nil {
		return closeErr
	}

	opts.logger.WithFields(logrus.Fields{
		"path": destPath,
		"size": fh.UnpackedSize,
	}).Debug("member extracted")
	return nil
}

func toFileHeader(fb block.FileBlock) FileHeader {
	fh := FileHeader{
		Name:           string(fb.Name),
		IsDirectory:    fb.Flags.IsDirectory,
		UnpackedSize:   fb.UnpackedSize,
		Attributes:     fb.Attributes,
		HasCRC32:       fb.HasCRC32,
		CRC32:          fb.CRC32,
		Method:         methodFromBlock(fb.Compression.Method),
		DictionarySize: fb.Compression.DictionarySize(),
		CreationOS:     osTagFromBlock(fb.CreationOS),
		Encrypted:      fb.Extra.FileEncryption != nil,
	}

	if fb.Flags.HasMTime {
		fh.HasModTime = true
		fh.ModTime = timeconv.FromUnixSeconds(int64(fb.MTime))
	}
	if fb.Extra.FileTime != nil && fb.Extra.FileTime.Modification != nil {
		fh.HasModTime = true
		fh.ModTime = *fb.Extra.FileTime.Modification
	}

	return fh
}
