package source

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/xuri/excelize/v2"
)

type fakeGetter struct {
	body   []byte
	err    error
	bucket string
	key    string
}

func (f *fakeGetter) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.bucket = *in.Bucket
	f.key = *in.Key
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(f.body))}, nil
}

func workbookBytes(t *testing.T, sheet string) []byte {
	t.Helper()

	wb := excelize.NewFile()
	defer wb.Close()
	if _, err := wb.NewSheet(sheet); err != nil {
		t.Fatalf("NewSheet: %v", err)
	}
	buf, err := wb.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}
	return buf.Bytes()
}

func TestParseS3URL(t *testing.T) {
	t.Parallel()

	bucket, key, err := ParseS3URL("s3://dados/planilhas/Saldo Empresas.xlsx")
	if err != nil {
		t.Fatalf("ParseS3URL failed: %v", err)
	}
	if bucket != "dados" || key != "planilhas/Saldo Empresas.xlsx" {
		t.Fatalf("bucket=%q key=%q", bucket, key)
	}

	for _, bad := range []string{"http://x/y", "s3://bucket", "s3:///key"} {
		if _, _, err := ParseS3URL(bad); err == nil {
			t.Fatalf("%q: expected error", bad)
		}
	}
}

func TestName(t *testing.T) {
	t.Parallel()

	if got := Name("s3://b/dir/Saldo.xlsx"); got != "Saldo.xlsx" {
		t.Fatalf("remote name=%q", got)
	}
	if got := Name(filepath.Join("data", "Saldo.xlsx")); got != "Saldo.xlsx" {
		t.Fatalf("local name=%q", got)
	}
}

func TestOpen_Remote(t *testing.T) {
	t.Parallel()

	getter := &fakeGetter{body: workbookBytes(t, "Varejo - Saldo_Varejo")}
	o := &Opener{newClient: func(context.Context, S3Config) (objectGetter, error) { return getter, nil }}

	f, err := o.Open(context.Background(), "s3://dados/Saldo Empresas.xlsx")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()

	if getter.bucket != "dados" || getter.key != "Saldo Empresas.xlsx" {
		t.Fatalf("unexpected object: %s/%s", getter.bucket, getter.key)
	}
	if idx, _ := f.GetSheetIndex("Varejo - Saldo_Varejo"); idx < 0 {
		t.Fatalf("sheet not found in remote workbook: %v", f.GetSheetList())
	}
}

func TestOpen_RemoteError(t *testing.T) {
	t.Parallel()

	boom := errors.New("access denied")
	o := &Opener{newClient: func(context.Context, S3Config) (objectGetter, error) { return &fakeGetter{err: boom}, nil }}

	if _, err := o.Open(context.Background(), "s3://dados/x.xlsx"); !errors.Is(err, boom) {
		t.Fatalf("err=%v, want wrapped access denied", err)
	}
}

func TestOpen_Local(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "Saldo.xlsx")
	wb := excelize.NewFile()
	if err := wb.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	_ = wb.Close()

	f, err := NewOpener(S3Config{}).Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	_ = f.Close()

	if _, err := NewOpener(S3Config{}).Open(context.Background(), filepath.Join(t.TempDir(), "nope.xlsx")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
