package gbc

// fullRowsMask has one bit set per tile row of the render window.
const fullRowsMask = 1<<RenderTilesY - 1

// RenderScanline traces one scanline of the render window into the
// scanline accumulator. Every 8th scanline completes a tile row, which is
// packed into the row buffer ready for StoreRow or upload. Deterministic:
// output depends only on the built tables and the active view.
func (t *Tracer) RenderScanline(py int) error {
	if t.state == stateUninitialized {
		return errTablesNotBuilt
	}

	line := &t.lineBuf[py%TileSize]
	for px := 0; px < RenderWidth; px++ {
		line[px] = t.tracePixel(px, py)
	}

	if py%TileSize == TileSize-1 {
		packTileRow(&t.lineBuf, t.rowBuf[:])
	}
	return nil
}

// RenderRow renders one complete tile row: 8 scanlines traced and packed.
func (t *Tracer) RenderRow(tileRow int) error {
	basePy := tileRow * TileSize
	for row := 0; row < TileSize; row++ {
		if err := t.RenderScanline(basePy + row); err != nil {
			return err
		}
	}
	return nil
}

// RowData returns the most recently packed tile row. The slice aliases the
// tracer's row buffer and is overwritten by the next completed row.
func (t *Tracer) RowData() []byte {
	return t.rowBuf[:]
}

// StoreRow commits the packed row buffer into the given view's slot of the
// scene store. Once a view's last row is committed the view is immutable;
// when both views are complete the tracer is ready for view switching.
func (t *Tracer) StoreRow(view View, tileRow int) error {
	if t.state == stateUninitialized {
		return errTablesNotBuilt
	}

	offset := tileRow * RenderTilesX * TileBytes
	copy(t.store[view][offset:offset+RenderTilesX*TileBytes], t.rowBuf[:])
	t.storedRows[view] |= 1 << tileRow

	switch {
	case t.storedRows[ViewFront] == fullRowsMask && t.storedRows[ViewBack] == fullRowsMask:
		t.state = stateReady
	case t.storedRows[view] == fullRowsMask && t.state == stateTablesBuilt:
		t.state = stateViewARendered
	}
	return nil
}

// ViewStored reports whether a view has been fully rendered and committed.
func (t *Tracer) ViewStored(view View) bool {
	return t.storedRows[view] == fullRowsMask
}

// ActivateStore returns the fully rasterized bitmap for the given view,
// read-only, for upload to the display. Only legal once both views are in
// the store: switching must never stall on recomputation.
func (t *Tracer) ActivateStore(view View) ([]byte, error) {
	if t.state != stateReady {
		return nil, errNotReady
	}
	return t.store[view][:], nil
}
