package gallery

import "errors"

// User-correctable failures. Each one is raised by a single action and leaves
// the stores untouched.
var (
	ErrInvalidAccessCode    = errors.New("invalid access code")
	ErrInvalidPrice         = errors.New("price must be a finite number >= 0")
	ErrInvalidPayoutDetails = errors.New("invalid payout details")
	ErrInsufficientStorage  = errors.New("not enough storage space, upgrade your plan to upload this file")
	ErrEmptyOrUnchangedName = errors.New("name is empty or unchanged")
	ErrInvalidPlan          = errors.New("storage plan must be greater than zero")
	ErrMissingCredentials   = errors.New("please enter both email and password")

	ErrAlreadyPurchased  = errors.New("already purchased")
	ErrNothingToPurchase = errors.New("gallery is already accessible")
	ErrNothingToPayOut   = errors.New("no available balance to pay out")
	ErrAccessDenied      = errors.New("media is locked, purchase required")

	ErrFolderNotFound = errors.New("folder not found")
	ErrMediaNotFound  = errors.New("media not found")
	ErrDuplicateCode  = errors.New("access code already in use")
)
