// Package wallet provides the single-user operations around the batch
// submitter: creating and funding a keypair, establishing the asset trustline,
// balance lookup, single payments and payment requests.
//
// Secrets are accepted per call and wiped before returning. Nothing is stored.
package wallet
