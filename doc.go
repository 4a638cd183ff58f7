// Package auth provides bearer-token session primitives: JWT issuance with
// sliding renewal, revocation tracking across pluggable stores, and a
// credential authenticator with an account lockout policy.
//
// Token lifecycle:
//   - TokenFactory is the single authority over tokens. Create mints a token
//     with the configured initial expiry; Verify resolves a live token back
//     to its subject, checking signature, time window, subject, and the
//     revocation store in that order; Renew extends the expiry by a fixed
//     step bounded by a ceiling counted from issuance, revoking the
//     superseded token; Revoke invalidates a token ahead of its expiry.
//   - Revocation stores are selected at construction time via Settings:
//     an in-process set for single-node deployments, a relational table for
//     shared state, and a cache placeholder that fails loudly rather than
//     reporting tokens as valid. Expired revocation records are never purged
//     by this package; schedule an external sweep if the table matters.
//
// Credentials:
//   - CredentialAuthenticator resolves a login identifier by email and/or
//     username, checks the blocked/active/verified account gates, verifies
//     the bcrypt password hash, and applies the strike based lockout policy.
//     All failures surface as the generic bad-credentials error; granular
//     reasons are logged and attached as metadata for internal consumers.
//
// Construct Settings, the revocation store, the factory, and the
// authenticator once at startup and pass them explicitly; nothing in this
// package keeps hidden process-wide state.
package auth
