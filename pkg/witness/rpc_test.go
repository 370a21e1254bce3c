package witness

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/stretchr/testify/require"
)

/* ---------------- fixture server ---------------- */

func serveResult(t *testing.T, result string) *httptest.Server {
	t.Helper()
	body := fmt.Sprintf(`{"jsonrpc":"2.0","id":1,"result":%s}`, result)
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
}

func emptyBloomHex() string { return "0x" + strings.Repeat("00", 256) }

/* ---------------- tests ---------------- */

func TestFetchReceiptsRoot(t *testing.T) {
	want := common.HexToHash("0x7fa9055cef0b717ba0cff21b29ba355d57a1979d0bfbaa4c3a5f2d0b8312a5e0")
	srv := serveResult(t, fmt.Sprintf(`{"number":"0x152f302","receiptsRoot":"%s"}`, want.Hex()))
	defer srv.Close()

	cli, err := ethclient.Dial(srv.URL)
	require.NoError(t, err)

	root, err := FetchReceiptsRoot(context.Background(), cli, 22213378)
	require.NoError(t, err)
	require.Equal(t, want, root)
}

func TestFetchBlockReceipts(t *testing.T) {
	result := fmt.Sprintf(`[{
		"type":"0x2",
		"status":"0x1",
		"cumulativeGasUsed":"0x5208",
		"logsBloom":"%s",
		"logs":[{
			"address":"0x4200000000000000000000000000000000000024",
			"topics":["0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef"],
			"data":"0x0102"
		}],
		"transactionIndex":"0x0"
	}]`, emptyBloomHex())
	srv := serveResult(t, result)
	defer srv.Close()

	cli, err := ethclient.Dial(srv.URL)
	require.NoError(t, err)

	receipts, err := FetchBlockReceipts(context.Background(), cli, 22213378)
	require.NoError(t, err)
	require.Len(t, receipts, 1)

	r := receipts[0]
	require.Equal(t, uint8(2), r.Type)
	require.Equal(t, uint64(1), r.Status)
	require.Equal(t, uint64(0x5208), r.CumulativeGasUsed)
	require.Equal(t, [256]byte{}, r.Bloom)
	require.Len(t, r.Logs, 1)
	require.Equal(t, common.HexToAddress("0x4200000000000000000000000000000000000024"), r.Logs[0].Address)
	require.Equal(t, []byte{0x01, 0x02}, r.Logs[0].Data)
}

func TestFetchBlockReceiptsBadBloom(t *testing.T) {
	result := `[{
		"type":"0x0",
		"status":"0x1",
		"cumulativeGasUsed":"0x5208",
		"logsBloom":"0x1234",
		"logs":[],
		"transactionIndex":"0x0"
	}]`
	srv := serveResult(t, result)
	defer srv.Close()

	cli, err := ethclient.Dial(srv.URL)
	require.NoError(t, err)

	_, err = FetchBlockReceipts(context.Background(), cli, 1)
	require.ErrorContains(t, err, "logsBloom")
}

func TestFetchBlockReceiptsOutOfOrder(t *testing.T) {
	result := fmt.Sprintf(`[{
		"type":"0x0",
		"status":"0x1",
		"cumulativeGasUsed":"0x5208",
		"logsBloom":"%s",
		"logs":[],
		"transactionIndex":"0x3"
	}]`, emptyBloomHex())
	srv := serveResult(t, result)
	defer srv.Close()

	cli, err := ethclient.Dial(srv.URL)
	require.NoError(t, err)

	_, err = FetchBlockReceipts(context.Background(), cli, 1)
	require.ErrorContains(t, err, "out of order")
}
