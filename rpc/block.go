package rpc

import (
	"fmt"

	"github.com/near/near-cli-go/types"
)

// BlockReference selects the block a request is answered at. The zero value is the final block.
type BlockReference struct {
	height *uint64
	hash   *types.CryptoHash
}

// FinalBlock references the latest final block.
func FinalBlock() BlockReference {
	return BlockReference{}
}

// AtHeight references the block at the given height.
func AtHeight(height uint64) BlockReference {
	return BlockReference{height: &height}
}

// AtHash references the block with the given hash.
func AtHash(hash types.CryptoHash) BlockReference {
	return BlockReference{hash: &hash}
}

// IsFinal returns true iff the reference selects the final block.
func (r BlockReference) IsFinal() bool {
	return r.height == nil && r.hash == nil
}

// Height returns the referenced height, if any.
func (r BlockReference) Height() (uint64, bool) {
	if r.height == nil {
		return 0, false
	}
	return *r.height, true
}

// Hash returns the referenced hash, if any.
func (r BlockReference) Hash() (types.CryptoHash, bool) {
	if r.hash == nil {
		return types.CryptoHash{}, false
	}
	return *r.hash, true
}

// String returns a human readable description of the reference.
func (r BlockReference) String() string {
	switch {
	case r.height != nil:
		return fmt.Sprintf("block #%d", *r.height)
	case r.hash != nil:
		return fmt.Sprintf("block %s", *r.hash)
	default:
		return "final block"
	}
}

// params returns the block selector fields of a request.
func (r BlockReference) params() map[string]interface{} {
	switch {
	case r.height != nil:
		return map[string]interface{}{"block_id": *r.height}
	case r.hash != nil:
		return map[string]interface{}{"block_id": r.hash.String()}
	default:
		return map[string]interface{}{"finality": "final"}
	}
}
