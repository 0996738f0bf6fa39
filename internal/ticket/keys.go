package ticket

// Field and user-data keys with fixed meaning in ticket templates.
const (
	// KeyTicketKind holds the text drawn by circle_text fields.
	KeyTicketKind = "票种"
	// KeyTicketKindLegacy is the older field name for the ticket kind.
	KeyTicketKindLegacy = "车票类型"
	// KeyQRCode is the field that receives the encoded QR payload.
	KeyQRCode = "二维码"
	// KeyBarcode is the field that receives the decorative barcode.
	KeyBarcode = "条码"
	// KeyBarcodeData is the user field the barcode pattern is derived from.
	KeyBarcodeData = "条码数据"
)
