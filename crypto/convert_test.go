package crypto

import (
	"testing"
)

func TestSignKeyConversionAgreement(t *testing.T) {
	// The birational map is only correct if both computations of the
	// identity-bound shared secret agree: the side holding the converted
	// private key and the side holding the converted public key must land
	// on the same curve point.
	identity, err := GenerateIdentityKeyPair()
	if err != nil {
		t.Fatalf("GenerateIdentityKeyPair() error: %v", err)
	}
	ephemeral, err := GenerateEphemeralKeyPair()
	if err != nil {
		t.Fatalf("GenerateEphemeralKeyPair() error: %v", err)
	}

	identityCurvePublic, err := SignPublicKeyToCurve25519(identity.Public)
	if err != nil {
		t.Fatalf("SignPublicKeyToCurve25519() error: %v", err)
	}
	identityCurvePrivate := SignPrivateKeyToCurve25519(identity.Private)

	fromEphemeral, err := ephemeral.SharedSecret(identityCurvePublic)
	if err != nil {
		t.Fatalf("SharedSecret() error: %v", err)
	}
	fromIdentity, err := DeriveSharedSecret(ephemeral.Public, identityCurvePrivate)
	if err != nil {
		t.Fatalf("DeriveSharedSecret() error: %v", err)
	}

	if fromEphemeral != fromIdentity {
		t.Error("converted key pair halves disagree on the shared secret")
	}
	if isZeroKey(fromEphemeral) {
		t.Error("conversion produced a degenerate shared secret")
	}
}

func TestSignPublicKeyToCurve25519Vectors(t *testing.T) {
	// Converting a seed-derived public key must match converting the
	// private key and multiplying the base point.
	cases := []string{vecClientSeed, vecServerSeed}

	for _, seed := range cases {
		identity := IdentityFromSeed(hexKey32(t, seed))

		fromPublic, err := SignPublicKeyToCurve25519(identity.Public)
		if err != nil {
			t.Fatalf("SignPublicKeyToCurve25519() error: %v", err)
		}

		curvePrivate := SignPrivateKeyToCurve25519(identity.Private)
		viaBasePoint, err := EphemeralFromPrivateKey(curvePrivate)
		if err != nil {
			t.Fatalf("EphemeralFromPrivateKey() error: %v", err)
		}

		if fromPublic != viaBasePoint.Public {
			t.Errorf("conversions disagree for seed %s", seed)
		}
	}
}

func TestSignPublicKeyToCurve25519Invalid(t *testing.T) {
	// y = 2 is not on the curve: the x² it implies is a non-residue, so
	// decoding must fail.
	notAPoint := [32]byte{0x02}
	if _, err := SignPublicKeyToCurve25519(notAPoint); err == nil {
		t.Error("SignPublicKeyToCurve25519() accepted an encoding that is not a curve point")
	}
}

func TestSignPrivateKeyToCurve25519Clamped(t *testing.T) {
	identity, err := GenerateIdentityKeyPair()
	if err != nil {
		t.Fatalf("GenerateIdentityKeyPair() error: %v", err)
	}

	converted := SignPrivateKeyToCurve25519(identity.Private)

	if converted[0]&0x07 != 0 {
		t.Error("converted scalar low bits are not cleared")
	}
	if converted[31]&0x80 != 0 {
		t.Error("converted scalar high bit is not cleared")
	}
	if converted[31]&0x40 == 0 {
		t.Error("converted scalar second-highest bit is not set")
	}
}
