// Package identify turns a recorded audio snippet into track metadata. It
// fingerprints the file with chromaprint's fpcalc binary and resolves the
// fingerprint against the AcoustID web service.
package identify
