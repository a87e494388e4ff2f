// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package provider defines the boundary between pocketstudio and a remote
// generative model.
//
// A Provider turns a prompt, the prior conversation and an optional image
// into a lazy Stream of text fragments, and synthesizes speech for a reply.
// Implementations register themselves by name, the way database/sql
// drivers do:
//
//	import _ "github.com/jeranaias/pocketstudio/internal/provider/gemini"
//
//	p, err := provider.New(provider.Config{Name: "gemini", APIKey: key})
//	stream, err := p.StreamReply(ctx, "hello", history, "")
//	for stream.Next() {
//	    fmt.Print(stream.Fragment())
//	}
//	if err := stream.Err(); err != nil { ... }
//
// Errors that reach callers are *ProviderError values wrapping one of the
// sentinel errors where the cause is known.
package provider
