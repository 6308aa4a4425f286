package service

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"bbexpress-api/internal/dto"
	"bbexpress-api/internal/model"

	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type ProductRepository interface {
	Insert(ctx context.Context, p *model.Product) error
	InsertMany(ctx context.Context, products []*model.Product) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Product, error)
	FindAll(ctx context.Context) ([]*model.Product, error)
	Update(ctx context.Context, p *model.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type ProductService struct {
	repo   ProductRepository
	txRepo TransactionRepository
	files  FileStore
}

func NewProductService(repo ProductRepository, txRepo TransactionRepository, files FileStore) *ProductService {
	return &ProductService{repo: repo, txRepo: txRepo, files: files}
}

func (s *ProductService) List(ctx context.Context) ([]*model.Product, error) {
	return s.repo.FindAll(ctx)
}

func (s *ProductService) Get(ctx context.Context, id primitive.ObjectID) (*model.Product, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ProductService) Create(ctx context.Context, req dto.ProductRequest) (*model.Product, error) {
	p := &model.Product{
		Name:        req.Name,
		Color:       req.Color,
		Price:       req.Price,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		ImageRef:    req.ImageRef,
		Tag:         req.Tag,
		Slogan:      req.Slogan,
		OrderLink:   req.OrderLink,
	}
	if err := s.repo.Insert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProductService) Update(ctx context.Context, id primitive.ObjectID, req dto.ProductRequest) (*model.Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p.Name = req.Name
	p.Color = req.Color
	p.Price = req.Price
	p.Description = req.Description
	p.ImageURL = req.ImageURL
	p.ImageRef = req.ImageRef
	p.Tag = req.Tag
	p.Slogan = req.Slogan
	p.OrderLink = req.OrderLink

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete borra el producto y, si tiene imagen en el proveedor, también la
// imagen; un fallo del proveedor no deja el producto a medias.
func (s *ProductService) Delete(ctx context.Context, id primitive.ObjectID) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if p.ImageRef != "" {
		if err := s.files.Delete(p.ImageRef); err != nil {
			zap.L().Warn("No se pudo borrar la imagen del producto",
				zap.String("image_ref", p.ImageRef),
				zap.Error(err))
		}
	}
	return nil
}

// ImportExcel carga productos en lote desde un .xlsx del panel de admin.
// Columnas: nombre, color, precio, descripción, etiqueta, eslogan, enlace.
// La primera fila es cabecera; las filas incompletas o con precio ilegible se
// saltan sin cortar la importación.
func (s *ProductService) ImportExcel(ctx context.Context, r io.Reader) (int, error) {
	xlsx, err := excelize.OpenReader(r)
	if err != nil {
		return 0, err
	}
	defer xlsx.Close()

	rows, err := xlsx.GetRows("Sheet1")
	if err != nil {
		return 0, err
	}

	var products []*model.Product
	for i, row := range rows {
		if i == 0 {
			continue // cabecera
		}
		if len(row) < 3 {
			continue
		}

		price, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			continue
		}

		p := &model.Product{
			Name:  row[0],
			Color: row[1],
			Price: price,
		}
		if len(row) > 3 {
			p.Description = row[3]
		}
		if len(row) > 4 {
			p.Tag = row[4]
		}
		if len(row) > 5 {
			p.Slogan = row[5]
		}
		if len(row) > 6 {
			p.OrderLink = row[6]
		}
		products = append(products, p)
	}

	if err := s.repo.InsertMany(ctx, products); err != nil {
		return 0, err
	}
	return len(products), nil
}

// RecordPurchase escribe el asiento STORE_PURCHASE del libro unificado con la
// foto de contacto del comprador. Cantidad siempre 1.
func (s *ProductService) RecordPurchase(ctx context.Context, buyer *model.User, productID primitive.ObjectID) (*model.Transaction, error) {
	p, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	tx := &model.Transaction{
		Type:           model.TxStorePurchase,
		SourceRef:      p.ID.Hex(),
		Amount:         fmt.Sprintf("%.2f", p.Price),
		Currency:       "EUR",
		SubmitterName:  buyer.Name,
		SubmitterPhone: buyer.Phone,
		SubmitterEmail: buyer.Email,
		Details: map[string]string{
			"product": p.Name,
			"color":   p.Color,
		},
	}
	if err := s.txRepo.Insert(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}
