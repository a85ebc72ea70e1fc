package legacy

import (
	"bytes"
	"encoding/hex"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/TopiaNetwork/ethtx/codec"
	tpcmm "github.com/TopiaNetwork/ethtx/common"
	"github.com/TopiaNetwork/ethtx/configuration"
	tpcrt "github.com/TopiaNetwork/ethtx/crypt"
	"github.com/TopiaNetwork/ethtx/crypt/secp256"
	tpcrtypes "github.com/TopiaNetwork/ethtx/crypt/types"
	tplog "github.com/TopiaNetwork/ethtx/log"
	tplogcmm "github.com/TopiaNetwork/ethtx/log/common"
	txbasic "github.com/TopiaNetwork/ethtx/transaction/basic"
)

const (
	eip155SigningData = "ec098504a817c800825208943535353535353535353535353535353535353535880de0b6b3a764000080018080"
	eip155SigningHash = "daf5a779ae972f972197303d7b574746c7ef83eadac0f2791ad23db92e4c8e53"
	eip155SignedTx    = "f86c098504a817c800825208943535353535353535353535353535353535353535880de0b6b3a76400008025a028ef61340bd939bc2195fe537567866003e1a15d3c71ff63e1590620aa636276a067cbe9d8997f761aecb703304b3800ccf555c9f3dc64214b297fb1966a3b6d83"
)

var testLog, _ = tplog.CreateMainLogger(tplogcmm.InfoLevel, tplog.JSONFormat, tplog.StdErrOutput, "")

func testPriKey() []byte {
	return bytes.Repeat([]byte{0x46}, 32)
}

func testSender(t *testing.T) common.Address {
	key, err := crypto.ToECDSA(testPriKey())
	require.NoError(t, err)
	return crypto.PubkeyToAddress(key.PublicKey)
}

func mustDecodeHex(t *testing.T, s string) []byte {
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func eip155TxData() txbasic.TxData {
	value, _ := new(big.Int).SetString("1000000000000000000", 10)
	return txbasic.TxData{
		Nonce:    big.NewInt(9),
		GasPrice: big.NewInt(20000000000),
		GasLimit: big.NewInt(21000),
		To:       bytes.Repeat([]byte{0x35}, 20),
		Value:    value,
	}
}

func profileAt(t *testing.T, hardfork string) *configuration.ChainProfile {
	p, err := configuration.NewChainProfile(&configuration.ChainProfileConfig{Chain: "mainnet", Hardfork: hardfork})
	require.NoError(t, err)
	return p
}

func TestEIP155SigningVector(t *testing.T) {
	tx, err := NewLegacyTransaction(eip155TxData(), &txbasic.TxOptions{Log: testLog})
	require.NoError(t, err)

	encoded, err := codec.CreateMarshaler(codec.CodecType_RLP).Marshal(tx.MessageToSignRaw(true))
	require.NoError(t, err)
	assert.Equal(t, eip155SigningData, hex.EncodeToString(encoded))

	msgHash, err := tx.MessageToSign()
	require.NoError(t, err)
	assert.Equal(t, eip155SigningHash, hex.EncodeToString(msgHash))

	signed, err := tx.Sign(testPriKey())
	require.NoError(t, err)
	serialized, err := signed.Serialize()
	require.NoError(t, err)
	assert.Equal(t, eip155SignedTx, hex.EncodeToString(serialized))

	v, _, _ := signed.RawSignatureValues()
	assert.Equal(t, int64(37), v.Int64())
	assert.False(t, tx.IsSigned())
}

func TestDecodeEIP155SignedTx(t *testing.T) {
	serialized := mustDecodeHex(t, eip155SignedTx)
	tx, err := FromSerializedTx(serialized, nil)
	require.NoError(t, err)

	assert.True(t, tx.IsSigned())
	eip155, err := tx.IsEIP155Signed()
	require.NoError(t, err)
	assert.True(t, eip155)

	sender, err := tx.SenderAddress()
	require.NoError(t, err)
	assert.Equal(t, testSender(t), sender)
	assert.True(t, tx.VerifySignature())
	assert.True(t, tx.Validate())
	assert.Equal(t, []string{}, tx.ValidationErrors())

	hash, err := tx.Hash()
	require.NoError(t, err)
	assert.Equal(t, crypto.Keccak256(serialized), hash)

	gethTx, err := tx.ToGeth()
	require.NoError(t, err)
	assert.Equal(t, gethTx.Hash().Bytes(), hash)
}

func TestSignMatchesGeth(t *testing.T) {
	key, err := crypto.ToECDSA(testPriKey())
	require.NoError(t, err)

	cases := []struct {
		name     string
		hardfork string
		signer   types.Signer
		to       []byte
	}{
		{"homestead transfer", "homestead", types.HomesteadSigner{}, bytes.Repeat([]byte{0x11}, 20)},
		{"homestead creation", "homestead", types.HomesteadSigner{}, nil},
		{"eip155 transfer", "istanbul", types.NewEIP155Signer(big.NewInt(1)), bytes.Repeat([]byte{0x22}, 20)},
		{"eip155 creation", "spuriousDragon", types.NewEIP155Signer(big.NewInt(1)), nil},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			data := txbasic.TxData{
				Nonce:    big.NewInt(3),
				GasPrice: big.NewInt(1000000000),
				GasLimit: big.NewInt(100000),
				To:       c.to,
				Value:    big.NewInt(12345),
				Data:     []byte{0x60, 0x00, 0x60, 0x01},
			}
			tx, err := NewLegacyTransaction(data, &txbasic.TxOptions{Profile: profileAt(t, c.hardfork)})
			require.NoError(t, err)

			signed, err := tx.Sign(testPriKey())
			require.NoError(t, err)
			ours, err := signed.Serialize()
			require.NoError(t, err)

			unsignedGeth, err := tx.ToGeth()
			require.NoError(t, err)
			gethSigned, err := types.SignTx(unsignedGeth, c.signer, key)
			require.NoError(t, err)
			theirs, err := gethSigned.MarshalBinary()
			require.NoError(t, err)

			assert.Equal(t, theirs, ours)

			msgHash, err := tx.MessageToSign()
			require.NoError(t, err)
			assert.Equal(t, c.signer.Hash(unsignedGeth).Bytes(), msgHash)

			sender, err := signed.SenderAddress()
			require.NoError(t, err)
			assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey), sender)
		})
	}
}

func TestValidateTxV(t *testing.T) {
	base := eip155TxData()
	base.R = big.NewInt(1)
	base.S = big.NewInt(1)

	for _, v := range []int64{0, 27, 28, 37, 38} {
		data := base
		data.V = big.NewInt(v)
		_, err := NewLegacyTransaction(data, nil)
		assert.NoError(t, err, "v=%d", v)
	}

	data := base
	data.V = big.NewInt(41)
	_, err := NewLegacyTransaction(data, nil)
	assert.ErrorIs(t, err, tpcmm.ErrValidation)

	_, err = NewLegacyTransaction(data, &txbasic.TxOptions{Profile: profileAt(t, "tangerineWhistle")})
	assert.NoError(t, err)

	ropsten, err := configuration.NewChainProfile(&configuration.ChainProfileConfig{Chain: "ropsten"})
	require.NoError(t, err)
	_, err = NewLegacyTransaction(data, &txbasic.TxOptions{Profile: ropsten})
	assert.NoError(t, err)
}

func TestUnsignedTransactionState(t *testing.T) {
	tx, err := NewLegacyTransaction(eip155TxData(), nil)
	require.NoError(t, err)

	_, err = tx.IsEIP155Signed()
	assert.ErrorIs(t, err, tpcmm.ErrState)
	_, err = tx.Hash()
	assert.ErrorIs(t, err, tpcmm.ErrState)
	_, err = tx.MessageToVerifySignature()
	assert.ErrorIs(t, err, tpcmm.ErrState)
	_, err = tx.SenderPublicKey()
	assert.ErrorIs(t, err, tpcmm.ErrState)
	_, err = tx.SenderAddress()
	assert.ErrorIs(t, err, tpcmm.ErrState)

	assert.False(t, tx.VerifySignature())
	assert.True(t, tx.Validate())
}

type noRecoveryCrypt struct {
	tpcrt.CryptService
}

func (noRecoveryCrypt) RecoverPublicKey([]byte, tpcrtypes.Signature) (tpcrtypes.PublicKey, error) {
	return nil, errors.New("no recovery")
}

func TestVerifySignatureWithCustomCrypt(t *testing.T) {
	serialized := mustDecodeHex(t, eip155SignedTx)

	tx, err := FromSerializedTx(serialized, nil)
	require.NoError(t, err)
	require.True(t, tx.VerifySignature())

	opts := &txbasic.TxOptions{Crypt: noRecoveryCrypt{secp256.New(testLog)}}
	custom, err := FromSerializedTx(serialized, opts)
	require.NoError(t, err)
	assert.False(t, custom.VerifySignature())
	_, err = custom.SenderAddress()
	assert.ErrorIs(t, err, tpcmm.ErrValidation)
	assert.Equal(t, []string{"invalid signature"}, custom.ValidationErrors())

	assert.True(t, tx.VerifySignature())
}

func TestPreEIP155SignatureOnEIP155Profile(t *testing.T) {
	homestead, err := NewLegacyTransaction(eip155TxData(), &txbasic.TxOptions{Profile: profileAt(t, "homestead")})
	require.NoError(t, err)
	signed, err := homestead.Sign(testPriKey())
	require.NoError(t, err)

	serialized, err := signed.Serialize()
	require.NoError(t, err)
	decoded, err := FromSerializedTx(serialized, nil)
	require.NoError(t, err)

	eip155, err := decoded.IsEIP155Signed()
	require.NoError(t, err)
	assert.False(t, eip155)

	sender, err := decoded.SenderAddress()
	require.NoError(t, err)
	assert.Equal(t, testSender(t), sender)
}

func malleate(t *testing.T, tx txbasic.Transaction, profile *configuration.ChainProfile) (*LegacyTransaction, error) {
	v, r, s := tx.RawSignatureValues()
	data := tx.(*LegacyTransaction).TxData()
	data.R = r
	data.S = new(big.Int).Sub(secp256.N, s)
	data.V = new(big.Int).Sub(big.NewInt(55), v)
	return NewLegacyTransaction(data, &txbasic.TxOptions{Profile: profile})
}

func TestSignatureMalleability(t *testing.T) {
	chainstart := profileAt(t, "chainstart")
	tx, err := NewLegacyTransaction(eip155TxData(), &txbasic.TxOptions{Profile: chainstart})
	require.NoError(t, err)
	signed, err := tx.Sign(testPriKey())
	require.NoError(t, err)

	flipped, err := malleate(t, signed, chainstart)
	require.NoError(t, err)
	sender, err := flipped.SenderAddress()
	require.NoError(t, err)
	assert.Equal(t, testSender(t), sender)

	flippedHomestead, err := malleate(t, signed, profileAt(t, "homestead"))
	require.NoError(t, err)
	_, err = flippedHomestead.SenderPublicKey()
	assert.ErrorIs(t, err, tpcmm.ErrValidation)
	assert.False(t, flippedHomestead.VerifySignature())
	assert.False(t, flippedHomestead.Validate())
	assert.Contains(t, flippedHomestead.ValidationErrors(), "invalid signature")
}

func TestInvalidSignatureValues(t *testing.T) {
	data := eip155TxData()
	data.V = big.NewInt(37)
	data.R = big.NewInt(1)
	data.S = big.NewInt(0)
	tx, err := NewLegacyTransaction(data, nil)
	require.NoError(t, err)

	assert.True(t, tx.IsSigned())
	assert.False(t, tx.VerifySignature())
	_, err = tx.SenderPublicKey()
	assert.Error(t, err)
}

func TestFees(t *testing.T) {
	data := eip155TxData()
	data.Data = []byte{0x00, 0xff}

	istanbul, err := NewLegacyTransaction(data, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(20), istanbul.DataFee().Int64())
	assert.Equal(t, int64(21020), istanbul.BaseFee().Int64())

	chainstart, err := NewLegacyTransaction(data, &txbasic.TxOptions{Profile: profileAt(t, "chainstart")})
	require.NoError(t, err)
	assert.Equal(t, int64(72), chainstart.DataFee().Int64())

	data.To = nil
	creation, err := NewLegacyTransaction(data, nil)
	require.NoError(t, err)
	assert.True(t, creation.ToCreationAddress())
	assert.Equal(t, int64(21000+32000+20), creation.BaseFee().Int64())

	creationFrontier, err := NewLegacyTransaction(data, &txbasic.TxOptions{Profile: profileAt(t, "chainstart")})
	require.NoError(t, err)
	assert.Equal(t, int64(21000+72), creationFrontier.BaseFee().Int64())

	expectedUpfront := new(big.Int).Mul(big.NewInt(21000), big.NewInt(20000000000))
	expectedUpfront.Add(expectedUpfront, eip155TxData().Value)
	assert.Equal(t, 0, expectedUpfront.Cmp(istanbul.UpfrontCost()))
}

func TestValidateGasLimitTooLow(t *testing.T) {
	data := eip155TxData()
	data.GasLimit = big.NewInt(20000)
	tx, err := NewLegacyTransaction(data, &txbasic.TxOptions{Log: testLog})
	require.NoError(t, err)

	assert.False(t, tx.Validate())
	assert.Equal(t, []string{"gasLimit is too low. given 20000, need at least 21000"}, tx.ValidationErrors())
	assert.Error(t, tx.Verify())
}

func TestFieldBounds(t *testing.T) {
	overflow := new(big.Int).Add(tpcmm.MaxInteger, big.NewInt(1))

	data := eip155TxData()
	data.Value = new(big.Int).Set(tpcmm.MaxInteger)
	_, err := NewLegacyTransaction(data, nil)
	assert.NoError(t, err)

	for _, set := range []func(d *txbasic.TxData){
		func(d *txbasic.TxData) { d.Nonce = overflow },
		func(d *txbasic.TxData) { d.GasPrice = overflow },
		func(d *txbasic.TxData) { d.GasLimit = overflow },
		func(d *txbasic.TxData) { d.Value = overflow },
		func(d *txbasic.TxData) { d.R = overflow },
		func(d *txbasic.TxData) { d.S = overflow },
		func(d *txbasic.TxData) { d.Nonce = big.NewInt(-1) },
		func(d *txbasic.TxData) { d.To = []byte{0x01} },
	} {
		data := eip155TxData()
		set(&data)
		_, err := NewLegacyTransaction(data, nil)
		assert.ErrorIs(t, err, tpcmm.ErrValidation)
	}
}

func TestSignRejectsShortKey(t *testing.T) {
	tx, err := NewLegacyTransaction(eip155TxData(), nil)
	require.NoError(t, err)

	_, err = tx.Sign(testPriKey()[:31])
	assert.ErrorIs(t, err, tpcmm.ErrValidation)
}

func TestFrozenAndMutable(t *testing.T) {
	tx, err := NewLegacyTransaction(eip155TxData(), nil)
	require.NoError(t, err)
	assert.True(t, tx.IsFrozen())

	err = tx.SetNonce(big.NewInt(10))
	assert.ErrorIs(t, err, tpcmm.ErrState)
	assert.Equal(t, int64(9), tx.Nonce().Int64())
	assert.ErrorIs(t, tx.SetData([]byte{1}), tpcmm.ErrState)
	assert.ErrorIs(t, tx.SetTo(nil), tpcmm.ErrState)

	mutable, err := NewLegacyTransaction(eip155TxData(), &txbasic.TxOptions{Mutable: true})
	require.NoError(t, err)
	assert.False(t, mutable.IsFrozen())

	before, err := mutable.MessageToSign()
	require.NoError(t, err)
	require.NoError(t, mutable.SetNonce(big.NewInt(10)))
	require.NoError(t, mutable.SetTo(nil))
	after, err := mutable.MessageToSign()
	require.NoError(t, err)
	assert.NotEqual(t, before, after)
	assert.True(t, mutable.ToCreationAddress())

	err = mutable.SetValue(new(big.Int).Add(tpcmm.MaxInteger, big.NewInt(1)))
	assert.ErrorIs(t, err, tpcmm.ErrValidation)

	signed, err := mutable.Sign(testPriKey())
	require.NoError(t, err)
	assert.True(t, signed.IsFrozen())
}

func TestAccessorsReturnCopies(t *testing.T) {
	data := eip155TxData()
	data.Data = []byte{0xaa}
	tx, err := NewLegacyTransaction(data, nil)
	require.NoError(t, err)

	tx.Nonce().SetInt64(100)
	tx.Data()[0] = 0xbb
	to := tx.To()
	to[0] = 0x00

	assert.Equal(t, int64(9), tx.Nonce().Int64())
	assert.Equal(t, []byte{0xaa}, tx.Data())
	assert.Equal(t, byte(0x35), tx.To()[0])
}

func TestProfileSnapshotIsolation(t *testing.T) {
	profile := configuration.DefChainProfile()
	tx, err := NewLegacyTransaction(eip155TxData(), &txbasic.TxOptions{Profile: profile})
	require.NoError(t, err)

	require.NoError(t, profile.SetHardfork(configuration.Hardfork_Chainstart))

	assert.Equal(t, configuration.Hardfork_Istanbul, tx.Profile().Hardfork())
	msgHash, err := tx.MessageToSign()
	require.NoError(t, err)
	assert.Equal(t, eip155SigningHash, hex.EncodeToString(msgHash))

	require.NoError(t, tx.Profile().SetHardfork(configuration.Hardfork_Berlin))
	assert.Equal(t, configuration.Hardfork_Istanbul, tx.Profile().Hardfork())
}

func TestFromValuesArray(t *testing.T) {
	signed, err := FromSerializedTx(mustDecodeHex(t, eip155SignedTx), nil)
	require.NoError(t, err)

	raw := signed.Raw()
	require.Len(t, raw, 9)

	again, err := FromValuesArray(raw, nil)
	require.NoError(t, err)
	assert.Equal(t, raw, again.Raw())

	unsigned, err := FromValuesArray(raw[:6], nil)
	require.NoError(t, err)
	assert.False(t, unsigned.IsSigned())
	assert.Len(t, unsigned.Raw(), 9)
	assert.Equal(t, []byte{}, unsigned.Raw()[6])

	_, err = FromValuesArray(raw[:7], nil)
	assert.ErrorIs(t, err, tpcmm.ErrValidation)

	nested := append([]interface{}{}, raw...)
	nested[0] = []interface{}{}
	_, err = FromValuesArray(nested, nil)
	assert.ErrorIs(t, err, tpcmm.ErrValidation)
}

func TestFromSerializedTxErrors(t *testing.T) {
	str, err := codec.CreateMarshaler(codec.CodecType_RLP).Marshal([]byte("not a list"))
	require.NoError(t, err)
	_, err = FromSerializedTx(str, nil)
	assert.ErrorIs(t, err, tpcmm.ErrValidation)
	assert.Contains(t, err.Error(), "must be array")

	_, err = FromSerializedTx([]byte{0xf8}, nil)
	assert.ErrorIs(t, err, tpcmm.ErrValidation)

	_, err = FromSerializedTx(nil, nil)
	assert.ErrorIs(t, err, tpcmm.ErrValidation)
}

func TestToJSON(t *testing.T) {
	tx, err := FromSerializedTx(mustDecodeHex(t, eip155SignedTx), nil)
	require.NoError(t, err)

	jTx := tx.ToJSON()
	assert.Equal(t, "0x9", jTx.Nonce)
	assert.Equal(t, "0x4a817c800", jTx.GasPrice)
	assert.Equal(t, "0x5208", jTx.GasLimit)
	assert.Equal(t, "0x3535353535353535353535353535353535353535", jTx.To)
	assert.Equal(t, "0xde0b6b3a7640000", jTx.Value)
	assert.Equal(t, "0x", jTx.Data)
	assert.Equal(t, "0x25", jTx.V)
	assert.Nil(t, jTx.AccessList)

	jsonBytes, err := tx.MarshalJSON()
	require.NoError(t, err)

	var data txbasic.TxData
	require.NoError(t, codec.CreateMarshaler(codec.CodecType_JSON).Unmarshal(jsonBytes, &data))
	again, err := NewLegacyTransaction(data, nil)
	require.NoError(t, err)
	assert.Equal(t, tx.Raw(), again.Raw())
}

func TestSerializeRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		data := txbasic.TxData{
			Nonce:    new(big.Int).SetUint64(rapid.Uint64().Draw(rt, "nonce")),
			GasPrice: new(big.Int).SetBytes(rapid.SliceOfN(rapid.Byte(), 0, 32).Draw(rt, "gasPrice")),
			GasLimit: new(big.Int).SetUint64(rapid.Uint64().Draw(rt, "gasLimit")),
			Value:    new(big.Int).SetBytes(rapid.SliceOfN(rapid.Byte(), 0, 32).Draw(rt, "value")),
			Data:     rapid.SliceOfN(rapid.Byte(), 0, 64).Draw(rt, "data"),
		}
		if rapid.Bool().Draw(rt, "hasTo") {
			data.To = rapid.SliceOfN(rapid.Byte(), 20, 20).Draw(rt, "to")
		}

		tx, err := NewLegacyTransaction(data, nil)
		require.NoError(rt, err)

		var subject txbasic.Transaction = tx
		if rapid.Bool().Draw(rt, "signed") {
			seed := rapid.SliceOfN(rapid.Byte(), 1, 32).Draw(rt, "seed")
			subject, err = tx.Sign(crypto.Keccak256(seed))
			require.NoError(rt, err)
		}

		serialized, err := subject.Serialize()
		require.NoError(rt, err)
		decoded, err := FromSerializedTx(serialized, nil)
		require.NoError(rt, err)

		assert.Equal(rt, subject.Raw(), decoded.Raw())
		assert.Equal(rt, subject.IsSigned(), decoded.IsSigned())
		if subject.IsSigned() {
			assert.True(rt, decoded.VerifySignature())
		}
	})
}
