// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package audio plays synthesized speech.
//
// Providers return base64 encoded 16-bit little-endian PCM. Decode turns it
// into per-channel float32 samples in [-1, 1). An Output renders a Buffer;
// ExecOutput pipes float32 samples to an external player found on PATH
// (ffplay, aplay, paplay or sox's play). Speaker ties synthesis, decoding
// and playback together and caches synthesized payloads by text digest.
package audio
