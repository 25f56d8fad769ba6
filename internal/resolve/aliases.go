package resolve

// defaultAliases is the curated alias table, collected from every header
// variant the upstream inventory system has been seen to export. Aliases
// are stored raw and normalized at Resolver construction, so entries here
// can be written the way they appear in real files.
//
// Order matters within a field: earlier aliases are preferred when the
// substring fallback could match more than one.
var defaultAliases = map[Field][]string{
	FieldArticleID: {
		"NumeroArticulo",
		"Numero Articulo",
		"Numero de Articulo",
		"Nº Articulo",
		"Num. Articulo",
		"NumArticulo",
		"CodigoArticulo",
		"Codigo Articulo",
		"Cód. Articulo",
		"Articulo",
	},
	FieldSupplierRef: {
		"ReferenciaProveedor",
		"Referencia Proveedor",
		"Ref. Prov.",
		"Referencia Prov",
		"Ref Proveedor",
		"REF_PROV",
		"Referencia",
	},
	FieldDescription: {
		"Descripcion",
		"Descripción",
		"NombreArticulo",
		"Desc",
		"Nombre",
	},
	FieldPrice: {
		"1. Lista Precio de Ventas",
		"PrecioLista1",
		"Precio Lista 1",
		"Precio Venta",
		"PVP",
		"Precio",
	},
	FieldBarcode: {
		"CodigoEAN",
		"Codigo EAN",
		"EAN13",
		"EAN",
		"CodigoBarras",
		"Cod. Barras",
	},
	FieldSupplierName: {
		"NombreProveedor",
		"Nombre Proveedor",
		"ProveedorNombre",
		"Proveedor",
	},
	FieldSupplierCode: {
		"CodigoProveedor",
		"Codigo Proveedor",
		"CodProveedor",
		"Cod. Proveedor",
		"IDProveedor",
	},
	FieldWarehouse: {
		"Codigo_almacen",
		"CodAlmacen",
		"Cod. Almacen",
		"Almacén",
		"Almacen",
		"IDAlmacen",
	},
	FieldStock: {
		"Stock Actual",
		"Stock",
		"Existencias",
		"Cantidad",
		"Unidades",
		"Qty",
	},
}
