package witness

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/privacy-ethereum/superchainerc20-zkWormholes/pkg/receipt"
)

// rpcReceipt mirrors one entry of an eth_getBlockReceipts response. All
// byte strings arrive hex-encoded at this boundary.
type rpcReceipt struct {
	Type              hexutil.Uint64 `json:"type"`
	Status            hexutil.Uint64 `json:"status"`
	CumulativeGasUsed hexutil.Uint64 `json:"cumulativeGasUsed"`
	LogsBloom         hexutil.Bytes  `json:"logsBloom"`
	Logs              []rpcLog       `json:"logs"`
	TransactionIndex  hexutil.Uint64 `json:"transactionIndex"`
}

type rpcLog struct {
	Address common.Address `json:"address"`
	Topics  []common.Hash  `json:"topics"`
	Data    hexutil.Bytes  `json:"data"`
}

// FetchBlockReceipts returns the block's receipts in transaction order.
func FetchBlockReceipts(ctx context.Context, cli *ethclient.Client, block uint64) ([]receipt.Receipt, error) {
	var raw []rpcReceipt
	err := cli.Client().CallContext(ctx, &raw, "eth_getBlockReceipts", hexutil.Uint64(block))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch block receipts: %w", err)
	}

	out := make([]receipt.Receipt, len(raw))
	for i, rr := range raw {
		if int(rr.TransactionIndex) != i {
			return nil, fmt.Errorf("receipts out of order: index %d at position %d", uint64(rr.TransactionIndex), i)
		}
		if len(rr.LogsBloom) != receipt.BloomByteLength {
			return nil, fmt.Errorf("logsBloom must be %d bytes, got %d", receipt.BloomByteLength, len(rr.LogsBloom))
		}
		r := receipt.Receipt{
			Type:              uint8(rr.Type),
			Status:            uint64(rr.Status),
			CumulativeGasUsed: uint64(rr.CumulativeGasUsed),
			Logs:              make([]receipt.Log, len(rr.Logs)),
		}
		copy(r.Bloom[:], rr.LogsBloom)
		for j, lg := range rr.Logs {
			r.Logs[j] = receipt.Log{Address: lg.Address, Topics: lg.Topics, Data: lg.Data}
		}
		out[i] = r
	}
	return out, nil
}

// FetchReceiptsRoot returns the receipts root the block header declares,
// used to cross-check the locally built trie.
func FetchReceiptsRoot(ctx context.Context, cli *ethclient.Client, block uint64) (common.Hash, error) {
	var hdr struct {
		ReceiptsRoot common.Hash `json:"receiptsRoot"`
	}
	if err := cli.Client().CallContext(ctx, &hdr, "eth_getBlockByNumber", hexutil.Uint64(block), false); err != nil {
		return common.Hash{}, fmt.Errorf("failed to fetch block header: %w", err)
	}
	return hdr.ReceiptsRoot, nil
}
