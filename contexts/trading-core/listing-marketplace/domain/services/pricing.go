package services

// TotalPrice is the amount a buyer must pay for a listing: base price plus
// the marketplace fee, in the smallest currency unit. Fee math is integer
// floor division; sub-unit fee remainders are dropped, never accumulated or
// carried forward. Changing this to rounding or ceiling changes settlement
// amounts and is not allowed.
func TotalPrice(price int64, feePercent int64) int64 {
	return price + price*feePercent/100
}

// SplitProceeds allocates a purchase payment. The seller always receives
// exactly the base price. By default the fee account keeps everything above
// it, including overpayment beyond the computed total (the historical
// settlement behavior). With refundOverpayment the fee account receives only
// the computed fee and the excess goes back to the buyer.
func SplitProceeds(
	price int64,
	feePercent int64,
	payment int64,
	refundOverpayment bool,
) (sellerProceeds int64, feeProceeds int64, buyerRefund int64) {
	total := TotalPrice(price, feePercent)
	sellerProceeds = price
	if refundOverpayment {
		feeProceeds = total - price
		buyerRefund = payment - total
		return sellerProceeds, feeProceeds, buyerRefund
	}
	feeProceeds = payment - price
	return sellerProceeds, feeProceeds, 0
}
