// Package pathfilter prunes route pieces whose contribution is negligible.
//
// Each ingredient carries the peak of |exp(iΦ)| along it. A piece whose
// peak is below thresh times the largest peak is dropped; with thresh = 0
// nothing is dropped and no magnitude checks are made.
package pathfilter
