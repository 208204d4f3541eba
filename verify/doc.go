// Copyright (c) 2025 Atzphere.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package verify screens voting form submissions before ballots are built.

Latest keeps each voter's most recent submission. Filter then asks a Checker
whether each remaining voter may vote:

	client, err := verify.NewClient(apiURL, apiKey)
	rows, err = verify.Filter(ctx, rows, cols, client, logger)

Client queries the membership API with the voter's member ID and accepts
regular members whose recorded student number matches the submission.
*/
package verify
