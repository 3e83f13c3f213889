package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"dnsrecon/engine"
)

func TestWriteResultSimple(t *testing.T) {
	var buf bytes.Buffer
	err := writeResult(&buf, "simple", engine.QueryResult{
		Domain:     "example.com",
		RecordType: "A",
		Records:    []string{"192.0.2.10", "192.0.2.11"},
	})
	require.NoError(t, err)
	require.Equal(t, "example.com\tA\t192.0.2.10\nexample.com\tA\t192.0.2.11\n", buf.String())
}

func TestWriteResultSimpleError(t *testing.T) {
	var buf bytes.Buffer
	err := writeResult(&buf, "simple", engine.QueryResult{
		Domain:     "gone.example",
		RecordType: "A",
		Error:      &engine.Descriptor{Kind: engine.KindDomainNotFound},
	})
	require.NoError(t, err)
	require.Contains(t, buf.String(), "ERROR\tdomain_not_found")
}

func TestWriteResultJSON(t *testing.T) {
	var buf bytes.Buffer
	err := writeResult(&buf, "json", engine.QueryResult{
		Domain:     "example.com",
		RecordType: "A",
		Nameserver: "8.8.8.8",
		Records:    []string{"192.0.2.10"},
	})
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, "example.com", decoded["domain"])
	require.NotContains(t, decoded, "error")
}
