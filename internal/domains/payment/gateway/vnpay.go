package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"workspace/config"
	"workspace/internal/domains/payment/model"
	"workspace/shared/failure"
	"workspace/shared/money"
	"workspace/transport/http/response"
)

const (
	vnpVersion          = "2.1.0"
	vnpCommandPay       = "pay"
	vnpCurrency         = "VND"
	vnpOrderType        = "other"
	vnpLocale           = "vn"
	vnpDateLayout       = "20060102150405"
	vnpAmountFactor     = 100
	vnpNoTransaction    = "0"
	vnpSuccessCode      = "00"
	vnpFieldPrefix      = "vnp_"
	vnpFieldSecureHash  = "vnp_SecureHash"
	vnpFieldHashType    = "vnp_SecureHashType"
	vnpFieldTxnRef      = "vnp_TxnRef"
	vnpFieldAmount      = "vnp_Amount"
	vnpFieldResponse    = "vnp_ResponseCode"
	vnpFieldTxnStatus   = "vnp_TransactionStatus"
	vnpFieldTxnNo       = "vnp_TransactionNo"
	vnpFieldBankCode    = "vnp_BankCode"
	vnpFieldCardType    = "vnp_CardType"
	vnpRspConfirmed     = "00"
	vnpRspOrderNotFound = "01"
	vnpRspAlreadyDone   = "02"
	vnpRspInvalidAmount = "04"
	vnpRspBadSignature  = "97"
	vnpRspUnknown       = "99"
)

// VNPay timestamps are always GMT+7.
var vnpLocation = time.FixedZone("GMT+7", 7*60*60)

type vnpayResponse struct {
	RspCode string `json:"RspCode"`
	Message string `json:"Message"`
}

type vnpay struct {
	tmnCode    string
	hashSecret string
	paymentURL string
	returnURL  string
	now        func() time.Time
}

func NewVNPay(cfg *config.Config) Adapter {
	c := cfg.Payment.VNPay

	return &vnpay{
		tmnCode:    c.TmnCode,
		hashSecret: c.HashSecret,
		paymentURL: c.PaymentURL,
		returnURL:  c.ReturnURL,
		now:        time.Now,
	}
}

func (v *vnpay) Name() string {
	return NameVNPay
}

// CheckoutURL signs a redirect URL locally. No request reaches VNPay until the customer follows it.
func (v *vnpay) CheckoutURL(_ context.Context, req CheckoutRequest) (string, error) {
	params := url.Values{}
	params.Set("vnp_Version", vnpVersion)
	params.Set("vnp_Command", vnpCommandPay)
	params.Set("vnp_TmnCode", v.tmnCode)
	params.Set(vnpFieldAmount, strconv.FormatInt(money.ToMinorUnits(req.Amount, vnpAmountFactor), 10))
	params.Set("vnp_CurrCode", vnpCurrency)
	params.Set(vnpFieldTxnRef, req.BookingCode)
	params.Set("vnp_OrderInfo", req.Description)
	params.Set("vnp_OrderType", vnpOrderType)
	params.Set("vnp_Locale", vnpLocale)
	params.Set("vnp_ReturnUrl", v.returnURL)
	params.Set("vnp_IpAddr", req.ClientIP)
	params.Set("vnp_CreateDate", v.now().In(vnpLocation).Format(vnpDateLayout))

	if !req.ExpiresAt.IsZero() {
		params.Set("vnp_ExpireDate", req.ExpiresAt.In(vnpLocation).Format(vnpDateLayout))
	}

	hashData := vnpHashData(params)

	return fmt.Sprintf("%s?%s&%s=%s", v.paymentURL, hashData, vnpFieldSecureHash, v.sign(hashData)), nil
}

func (v *vnpay) VerifyCallback(raw RawCallback) (Callback, error) {
	params := raw.Query

	if !signedEqual(v.digest(vnpHashData(params)), params.Get(vnpFieldSecureHash)) {
		return Callback{}, failure.InvalidSignature(NameVNPay) // nolint:wrapcheck
	}

	bookingCode := params.Get(vnpFieldTxnRef)
	if bookingCode == "" {
		return Callback{}, failure.UnknownTransaction("without reference") // nolint:wrapcheck
	}

	minor, err := strconv.ParseInt(params.Get(vnpFieldAmount), 10, 64)
	if err != nil {
		return Callback{}, failure.InvalidAmount("vnp_Amount is not a number") // nolint:wrapcheck
	}

	method := params.Get(vnpFieldBankCode)
	if cardType := params.Get(vnpFieldCardType); cardType != "" {
		method = method + ":" + cardType
	}

	responseCode := params.Get(vnpFieldResponse)

	transactionRef := params.Get(vnpFieldTxnNo)
	if transactionRef == vnpNoTransaction {
		transactionRef = ""
	}

	return Callback{
		Gateway:        NameVNPay,
		BookingCode:    bookingCode,
		TransactionRef: transactionRef,
		PaymentMethod:  method,
		Amount:         money.FromMinorUnits(minor, vnpAmountFactor),
		Currency:       vnpCurrency,
		Succeeded:      responseCode == vnpSuccessCode && params.Get(vnpFieldTxnStatus) == vnpSuccessCode,
		RawCode:        responseCode,
	}, nil
}

// WriteResponse always answers 200; VNPay reads the verdict from RspCode.
func (v *vnpay) WriteResponse(w http.ResponseWriter, result model.Result, err error) {
	res := vnpayResponse{RspCode: vnpRspConfirmed, Message: "Confirm Success"}

	switch {
	case err == nil && result.Outcome == model.OutcomeApplied:
	case err == nil:
		res = vnpayResponse{RspCode: vnpRspAlreadyDone, Message: "Order already confirmed"}
	case failure.IsKind(err, failure.KindInvalidSignature):
		res = vnpayResponse{RspCode: vnpRspBadSignature, Message: "Invalid signature"}
	case failure.IsKind(err, failure.KindUnknownTransaction):
		res = vnpayResponse{RspCode: vnpRspOrderNotFound, Message: "Order not found"}
	case failure.IsKind(err, failure.KindInvalidAmount):
		res = vnpayResponse{RspCode: vnpRspInvalidAmount, Message: "Invalid amount"}
	case errors.Is(err, ErrUnsupportedEvent):
		res = vnpayResponse{RspCode: vnpRspAlreadyDone, Message: "Order already confirmed"}
	default:
		res = vnpayResponse{RspCode: vnpRspUnknown, Message: "Unknown error"}
	}

	response.WithRaw(w, http.StatusOK, res)
}

func (v *vnpay) digest(data string) []byte {
	mac := hmac.New(sha512.New, []byte(v.hashSecret))
	mac.Write([]byte(data))

	return mac.Sum(nil)
}

func (v *vnpay) sign(data string) string {
	return hex.EncodeToString(v.digest(data))
}

// vnpHashData is the canonical string VNPay signs: sorted, url-encoded vnp_ fields without the hash itself.
func vnpHashData(params url.Values) string {
	keys := make([]string, 0, len(params))

	for key := range params {
		if !strings.HasPrefix(key, vnpFieldPrefix) || key == vnpFieldSecureHash || key == vnpFieldHashType {
			continue
		}

		if params.Get(key) == "" {
			continue
		}

		keys = append(keys, key)
	}

	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, key := range keys {
		pairs[i] = url.QueryEscape(key) + "=" + url.QueryEscape(params.Get(key))
	}

	return strings.Join(pairs, "&")
}
