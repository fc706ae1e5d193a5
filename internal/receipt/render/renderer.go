package render

import "time"

// ReceiptInput is the deterministic input used for receipt rendering. The
// preview endpoint and the approval pipeline both feed this struct, so given
// equal inputs the rendered document is identical.
type ReceiptInput struct {
	Donation    DonationView
	Signer      SignerView
	LogoDataURL string
	GeneratedAt time.Time
}

type DonationView struct {
	ReceiptNo string
	FullName  string
	Email     string
	Phone     string
	BirthDate time.Time
	Amount    float64
	CreatedAt time.Time
}

// SignerView decorates the signature block. When ImageDataURL is empty the
// block falls back to the automatic-issuance caption.
type SignerView struct {
	Name         string
	Title        string
	ImageDataURL string
}

type Renderer interface {
	RenderHTML(input ReceiptInput) (string, error)
}
