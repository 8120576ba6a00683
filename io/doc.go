// Package io provides program image I/O for the CHIP-8 emulator.
// Images are raw big-endian instruction words, loaded from address 0.
package io
