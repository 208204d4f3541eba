// Copyright (c) 2025 Atzphere.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package report turns a reconciliation result into a models.RunReport and
renders it for people.

	rep := report.Build(res, "pbv", report.InputsHash(reg, ballots))
	report.WriteText(os.Stdout, rep)

Every report gets a fresh UUID. InputsHash is a SHA-256 over the registered
candidates and the ballots, so stored runs over identical inputs share a
fingerprint.
*/
package report
