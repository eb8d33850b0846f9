package server

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dnsresolver/coreresolver/blocklist"
	"github.com/dnsresolver/coreresolver/resolver"
)

func buildQuestion(id uint16, name string) []byte {
	q := make([]byte, 0, 32)
	q = append(q, byte(id>>8), byte(id))
	q = append(q, 0x01, 0x00) // flags: RD set
	q = append(q, 0, 1, 0, 0, 0, 0, 0, 0)

	for _, label := range splitLabels(name) {
		q = append(q, byte(len(label)))
		q = append(q, label...)
	}
	q = append(q, 0)
	q = append(q, 0, 1) // qtype A
	q = append(q, 0, 1) // class IN
	return q
}

func splitLabels(name string) []string {
	var labels []string
	start := 0
	for i := 0; i <= len(name); i++ {
		if i == len(name) || name[i] == '.' {
			labels = append(labels, name[start:i])
			start = i + 1
		}
	}
	return labels
}

func TestServerRepliesNXDomainForBlockedName(t *testing.T) {
	bl := blocklist.New(blocklist.ModeSuffix)
	bl.Insert("ads.example.com")

	pipeline := resolver.New(resolver.NewBlocklistStage(bl))

	srv := New("127.0.0.1:0", pipeline)
	conn, err := net.ListenPacket("udp4", "127.0.0.1:0")
	require.NoError(t, err)
	srv.addr = conn.LocalAddr().String()
	conn.Close()

	stop := make(chan struct{})
	go func() {
		_ = srv.Run(stop)
	}()
	defer close(stop)

	time.Sleep(50 * time.Millisecond)

	client, err := net.Dial("udp4", srv.addr)
	require.NoError(t, err)
	defer client.Close()

	query := buildQuestion(0x1234, "ads.example.com")
	_, err = client.Write(query)
	require.NoError(t, err)

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	resp := make([]byte, 512)
	n, err := client.Read(resp)
	require.NoError(t, err)
	resp = resp[:n]

	assert.Equal(t, byte(0x12), resp[0])
	assert.Equal(t, byte(0x34), resp[1])
	assert.NotZero(t, resp[2]&0x80)
	assert.Equal(t, byte(0x03), resp[3]&0x0F)
}
