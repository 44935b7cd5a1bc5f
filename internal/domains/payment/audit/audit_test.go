package audit_test

import (
	"context"
	"encoding/json"
	"net/url"
	"testing"
	"time"

	s3Mocks "workspace/infras/s3/mocks"
	"workspace/internal/domains/payment/audit"
	"workspace/internal/domains/payment/gateway"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type upload struct {
	directory string
	fileName  string
	body      []byte
}

func TestArchiver_Archive(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := s3Mocks.NewMockS3(ctrl)

	uploads := make(chan upload, 1)

	storage.EXPECT().PutObject(gomock.Any(), gomock.Any(), gomock.Any(), "application/json", gomock.Any()).
		DoAndReturn(func(_ context.Context, directory, fileName, _ string, data []byte) (string, error) {
			uploads <- upload{directory: directory, fileName: fileName, body: data}

			return "https://cdn.example/" + directory + "/" + fileName, nil
		})

	ctx, cancel := context.WithCancel(context.Background())
	raw := gateway.RawCallback{
		Query:      url.Values{"vnp_TxnRef": {"BK-20300304-ABCDEF"}, "vnp_SecureHash": {"deadbeef"}},
		RemoteAddr: "203.0.113.9",
	}

	audit.New(storage).Archive(ctx, "vnpay", "invalid_signature", raw)
	cancel()

	select {
	case got := <-uploads:
		assert.Regexp(t, `^callbacks/vnpay/\d{4}-\d{2}-\d{2}$`, got.directory)
		assert.Regexp(t, `^[0-9a-f-]{36}\.json$`, got.fileName)

		var record audit.Record
		require.NoError(t, json.Unmarshal(got.body, &record))
		assert.Equal(t, "vnpay", record.Gateway)
		assert.Equal(t, "invalid_signature", record.Reason)
		assert.Equal(t, "BK-20300304-ABCDEF", record.Callback.Query.Get("vnp_TxnRef"))
		assert.Equal(t, "203.0.113.9", record.Callback.RemoteAddr)
	case <-time.After(2 * time.Second):
		t.Fatal("callback was not archived")
	}
}
