package nsdp_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prosafe_exporter/nsdp"
	"prosafe_exporter/nsdp/nsdptest"
)

func TestRecordsInOrder(t *testing.T) {
	var body []byte
	body = nsdptest.AppendRecord(body, 0x1000, []byte{1, 2, 3})
	body = nsdptest.AppendRecord(body, 0x0c00, nil)
	body = nsdptest.AppendRecord(body, 0x1000, []byte{4})
	body = nsdptest.AppendRecord(body, nsdp.TagEnd, nil)

	records, err := nsdp.Records(body)
	require.NoError(t, err)
	assert.Equal(t, []nsdp.Record{
		{Tag: 0x1000, Payload: []byte{1, 2, 3}},
		{Tag: 0x0c00, Payload: []byte{}},
		{Tag: 0x1000, Payload: []byte{4}},
	}, records)
}

func TestRecordsStopAtTerminator(t *testing.T) {
	var body []byte
	body = nsdptest.AppendRecord(body, 0x1000, []byte{1})
	body = nsdptest.AppendRecord(body, nsdp.TagEnd, []byte{9, 9})
	// trailing garbage, including an impossible length
	body = append(body, 0x10, 0x00, 0xff, 0xff, 0x01)

	records, err := nsdp.Records(body)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []byte{1}, records[0].Payload)
}

func TestRecordsWithoutTerminator(t *testing.T) {
	body := nsdptest.AppendRecord(nil, 0x1000, []byte{1, 2})

	records, err := nsdp.Records(body)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	records, err = nsdp.Records(nil)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRecordsTruncated(t *testing.T) {
	tests := []struct {
		name string
		body []byte
	}{
		{"length past end", []byte{0x10, 0x00, 0x00, 0x31, 0x01, 0x02}},
		{"partial tag", []byte{0x10}},
		{"partial length", []byte{0x10, 0x00, 0x00}},
		{"second record short", append(nsdptest.AppendRecord(nil, 0x1000, []byte{1}), 0x10, 0x00, 0x00, 0x02, 0x01)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := nsdp.Records(tt.body)
			require.Error(t, err)
			assert.True(t, errors.Is(err, nsdp.ErrTruncatedRecord), "got %v", err)
			assert.Nil(t, records)
		})
	}
}

func TestRecordReaderNotRestartable(t *testing.T) {
	r := nsdp.DecodeRecords(nsdptest.AppendRecord(nil, 0x1000, []byte{1}))
	require.True(t, r.Next())
	assert.False(t, r.Next())
	assert.False(t, r.Next())
	assert.NoError(t, r.Err())
}
